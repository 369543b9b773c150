package clients

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vet-clinic-api/internal/domain/pets"
	"vet-clinic-api/internal/domain/validation"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, petsSvc *pets.Service) {
	r.Route("/clients", func(cr chi.Router) {
		cr.Get("/", listClientsHandler(svc, petsSvc))
		cr.Post("/", createClientHandler(svc))

		cr.Get("/{clientID}", getClientHandler(svc, petsSvc))
		cr.Put("/{clientID}", updateClientHandler(svc, petsSvc))
		cr.Delete("/{clientID}", deleteClientHandler(svc))

		cr.Post("/{clientID}/assign-pet", assignPetHandler(svc, petsSvc))
		cr.Delete("/{clientID}/pets/{petID}", removePetHandler(svc))
	})
}

type createClientRequest struct {
	Fullname string `json:"fullname"`
	Address  string `json:"address"`
	Age      *int   `json:"age"`
	Email    string `json:"email"`
	Number   string `json:"number"`
}

type updateClientRequest struct {
	// Pointers for partial update: nil = leave alone.
	Fullname *string `json:"fullname"`
	Address  *string `json:"address"`
	Email    *string `json:"email"`
	Number   *string `json:"number"`
}

type clientResponse struct {
	ID        string          `json:"id"`
	Fullname  string          `json:"fullname"`
	Address   string          `json:"address"`
	Age       *int            `json:"age"`
	Email     string          `json:"email"`
	Number    string          `json:"number"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Pets      []pets.Response `json:"pets"`
}

type assignPetRequest struct {
	PetID string `json:"pet_id"`
}

func listClientsHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			renderError(w, err)
			return
		}

		out := make([]clientResponse, 0, len(items))
		for _, c := range items {
			resp, err := toClientResponse(r, svc, petsSvc, c)
			if err != nil {
				renderError(w, err)
				return
			}
			out = append(out, resp)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createClientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createClientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		c, err := svc.Create(r.Context(), CreateInput{
			Fullname: req.Fullname,
			Address:  req.Address,
			Age:      req.Age,
			Email:    req.Email,
			Number:   req.Number,
		})
		if err != nil {
			renderError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, clientResponse{
			ID:        c.ID,
			Fullname:  c.Fullname,
			Address:   c.Address,
			Age:       c.Age,
			Email:     c.Email,
			Number:    c.Number,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
			Pets:      []pets.Response{},
		})
	}
}

func getClientHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "clientID"))
		if err != nil {
			renderError(w, err)
			return
		}

		resp, err := toClientResponse(r, svc, petsSvc, c)
		if err != nil {
			renderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func updateClientHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Decode to a raw map first so "age": null can be told apart
		// from age simply not being sent.
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		var req updateClientRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid json")
				return
			}
		}

		age := AgePatch{}
		if v, exists := raw["age"]; exists {
			age.Present = true
			if string(v) != "null" {
				var n int
				if err := json.Unmarshal(v, &n); err != nil {
					errs := validation.FieldErrors{}
					errs.Add("age", "age must be an integer or null")
					renderError(w, errs)
					return
				}
				age.Value = &n
			}
		}

		c, err := svc.Update(r.Context(), chi.URLParam(r, "clientID"), UpdateInput{
			Fullname: req.Fullname,
			Address:  req.Address,
			Age:      age,
			Email:    req.Email,
			Number:   req.Number,
		})
		if err != nil {
			renderError(w, err)
			return
		}

		resp, err := toClientResponse(r, svc, petsSvc, c)
		if err != nil {
			renderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func deleteClientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "clientID")); err != nil {
			renderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Client deleted successfully"})
	}
}

func assignPetHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req assignPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		errs := validation.FieldErrors{}
		petID := strings.TrimSpace(req.PetID)
		if petID == "" {
			errs.Add("pet_id", "pet_id is required")
		} else if _, err := petsSvc.GetByID(r.Context(), petID); err != nil {
			if errors.Is(err, pets.ErrNotFound) {
				errs.Add("pet_id", "pet_id must reference an existing pet")
			} else {
				renderError(w, err)
				return
			}
		}
		if err := errs.Err(); err != nil {
			renderError(w, err)
			return
		}

		if err := svc.AttachPet(r.Context(), chi.URLParam(r, "clientID"), petID); err != nil {
			renderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Pet assigned to client successfully"})
	}
}

func removePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.DetachPet(r.Context(), chi.URLParam(r, "clientID"), chi.URLParam(r, "petID"))
		if err != nil {
			renderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Pet removed from client successfully"})
	}
}

func toClientResponse(r *http.Request, svc *Service, petsSvc *pets.Service, c Client) (clientResponse, error) {
	petIDs, err := svc.PetIDs(r.Context(), c.ID)
	if err != nil {
		return clientResponse{}, err
	}

	owned := make([]pets.Response, 0, len(petIDs))
	for _, id := range petIDs {
		p, err := petsSvc.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, pets.ErrNotFound) {
				continue
			}
			return clientResponse{}, err
		}
		owned = append(owned, pets.ToResponse(p))
	}

	return clientResponse{
		ID:        c.ID,
		Fullname:  c.Fullname,
		Address:   c.Address,
		Age:       c.Age,
		Email:     c.Email,
		Number:    c.Number,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Pets:      owned,
	}, nil
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
		writeError(w, http.StatusNotFound, "Client not found")
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
