package schedules

// ServiceType is the category of a visit entry. The module grew out of a
// vaccination-only schedule, which is why the HTTP surface still says
// "vaccination-schedules".
type ServiceType string

const (
	ServiceCBCTest           ServiceType = "cbc_test"
	ServiceGroom             ServiceType = "groom"
	ServiceParasiteTreatment ServiceType = "parasite_treatment"
	ServiceVaccination       ServiceType = "vaccination"
	ServiceSurgery           ServiceType = "surgery"
	ServicePrescription      ServiceType = "prescription"
)

// Status lifecycle: pending -> {completed, cancelled}. in_progress is a
// defined value with no operation that sets it; it is kept for
// compatibility with stored rows and the front end's option list.
type Status string

const (
	StatusPending    Status = "pending"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusInProgress Status = "in_progress"
)

var serviceLabels = map[ServiceType]string{
	ServiceCBCTest:           "CBC Test",
	ServiceGroom:             "Grooming",
	ServiceParasiteTreatment: "Parasite Treatment",
	ServiceVaccination:       "Vaccination",
	ServiceSurgery:           "Surgery",
	ServicePrescription:      "Prescription",
}

var statusLabels = map[Status]string{
	StatusPending:    "Pending",
	StatusCompleted:  "Completed",
	StatusCancelled:  "Cancelled",
	StatusInProgress: "In Progress",
}

func (t ServiceType) Valid() bool {
	_, ok := serviceLabels[t]
	return ok
}

// Label returns the display name; unknown codes fall back to the code.
func (t ServiceType) Label() string {
	if l, ok := serviceLabels[t]; ok {
		return l
	}
	return string(t)
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// ServiceTypes returns code -> display label for the options endpoint.
func ServiceTypes() map[string]string {
	out := make(map[string]string, len(serviceLabels))
	for k, v := range serviceLabels {
		out[string(k)] = v
	}
	return out
}

func StatusOptions() map[string]string {
	out := make(map[string]string, len(statusLabels))
	for k, v := range statusLabels {
		out[string(k)] = v
	}
	return out
}
