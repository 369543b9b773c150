package pets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vet-clinic-api/internal/domain/validation"

	"github.com/go-chi/chi/v5"
)

// Cascade is what pet deletion calls to drop association rows owned by
// other modules (client-pet, schedule-pet).
type Cascade interface {
	DetachPetFromAll(ctx context.Context, petID string) error
}

func RegisterRoutes(r chi.Router, svc *Service, cascades ...Cascade) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc))
		pr.Post("/", createPetHandler(svc))

		// Static option lists; registered before the id routes on purpose.
		pr.Get("/breeds/options", breedOptionsHandler())
		pr.Get("/species/options", speciesOptionsHandler())

		pr.Get("/{petID}", getPetHandler(svc))
		pr.Put("/{petID}", updatePetHandler(svc))
		pr.Delete("/{petID}", deletePetHandler(svc, cascades))
	})
}

type createPetRequest struct {
	Name         string `json:"name"`
	Role         string `json:"role"`
	Breed        string `json:"breed"`
	Species      string `json:"species"`
	ColorMarking string `json:"colormarking"`
	Birthday     string `json:"birthday"` // YYYY-MM-DD
	Gender       string `json:"gender"`
}

type updatePetRequest struct {
	// Pointers for partial update: nil = leave alone.
	Name         *string `json:"name"`
	Role         *string `json:"role"`
	Breed        *string `json:"breed"`
	Species      *string `json:"species"`
	ColorMarking *string `json:"colormarking"`
	Birthday     *string `json:"birthday"`
	Gender       *string `json:"gender"`
}

// Response is the wire shape of a pet. Exported because client and
// schedule payloads embed their associated pets.
type Response struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Breed        string    `json:"breed"`
	Species      string    `json:"species"`
	ColorMarking string    `json:"colormarking"`
	Birthday     string    `json:"birthday"`
	Gender       string    `json:"gender"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ToResponse(p Pet) Response {
	return Response{
		ID:           p.ID,
		Name:         p.Name,
		Role:         string(p.Role),
		Breed:        p.Breed,
		Species:      p.Species,
		ColorMarking: p.ColorMarking,
		Birthday:     p.Birthday.Format("2006-01-02"),
		Gender:       string(p.Gender),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			renderError(w, err)
			return
		}

		out := make([]Response, 0, len(items))
		for _, p := range items {
			out = append(out, ToResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		var birthday time.Time
		if strings.TrimSpace(req.Birthday) != "" {
			t, err := ParseDate(req.Birthday)
			if err != nil {
				errs := validation.FieldErrors{}
				errs.Add("birthday", "birthday must be a valid date")
				renderError(w, errs)
				return
			}
			birthday = t
		}

		p, err := svc.Create(r.Context(), CreateInput{
			Name:         req.Name,
			Role:         req.Role,
			Breed:        req.Breed,
			Species:      req.Species,
			ColorMarking: req.ColorMarking,
			Birthday:     birthday,
			Gender:       req.Gender,
		})
		if err != nil {
			renderError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, ToResponse(p))
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			renderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(p))
	}
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updatePetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		in := UpdateInput{
			Name:         req.Name,
			Role:         req.Role,
			Breed:        req.Breed,
			Species:      req.Species,
			ColorMarking: req.ColorMarking,
			Gender:       req.Gender,
		}

		if req.Birthday != nil {
			t, err := ParseDate(*req.Birthday)
			if err != nil {
				errs := validation.FieldErrors{}
				errs.Add("birthday", "birthday must be a valid date")
				renderError(w, errs)
				return
			}
			in.Birthday = &t
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "petID"), in)
		if err != nil {
			renderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(p))
	}
}

func deletePetHandler(svc *Service, cascades []Cascade) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")

		if err := svc.Delete(r.Context(), petID); err != nil {
			renderError(w, err)
			return
		}

		// Association rows referencing the pet go with it.
		for _, c := range cascades {
			if err := c.DetachPetFromAll(r.Context(), petID); err != nil {
				renderError(w, err)
				return
			}
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Pet deleted successfully"})
	}
}

func breedOptionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, BreedOptions(r.URL.Query().Get("role")))
	}
}

func speciesOptionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, SpeciesOptions(r.URL.Query().Get("role")))
	}
}

// ParseDate accepts a plain date or a full timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func renderError(w http.ResponseWriter, err error) {
	var fieldErrs validation.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The given data was invalid.",
			"errors":  fieldErrs,
		})
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "Pet not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
