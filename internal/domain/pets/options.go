package pets

// Static option lists for the intake form. Not persisted; breed and
// species stay free-text on the record so older spellings survive.

var breedOptions = map[Role][]string{
	RoleCanine: {
		"Labrador Retriever", "Golden Retriever", "German Shepherd", "Bulldog",
		"Poodle", "Beagle", "Rottweiler", "Yorkshire Terrier", "Dachshund",
		"Siberian Husky", "Boxer", "Border Collie", "Chihuahua", "Shih Tzu",
		"Boston Terrier", "Pomeranian", "Australian Shepherd", "Mixed Breed",
	},
	RoleFeline: {
		"Persian", "Maine Coon", "British Shorthair", "Ragdoll", "Siamese",
		"American Shorthair", "Abyssinian", "Russian Blue", "Scottish Fold",
		"Sphynx", "Bengal", "American Curl", "Birman", "Oriental Shorthair",
		"Devon Rex", "Domestic Shorthair", "Domestic Longhair", "Mixed Breed",
	},
}

var speciesOptions = map[Role][]string{
	RoleCanine: {
		"Domestic Dog", "Working Dog", "Toy Dog", "Terrier", "Hound",
		"Sporting Dog", "Non-Sporting Dog", "Herding Dog",
	},
	RoleFeline: {
		"Domestic Cat", "Longhair Cat", "Shorthair Cat", "Hairless Cat",
		"Wild Cat Hybrid",
	},
}

// BreedOptions returns the breed list for a role; unknown roles get an
// empty list, matching the form's behavior.
func BreedOptions(role string) []string {
	opts := breedOptions[Role(role)]
	out := make([]string, len(opts))
	copy(out, opts)
	return out
}

func SpeciesOptions(role string) []string {
	opts := speciesOptions[Role(role)]
	out := make([]string, len(opts))
	copy(out, opts)
	return out
}
