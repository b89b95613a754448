package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/camden-git/familyvault/familytree"
	"github.com/go-chi/chi/v5"
)

type FamilyHandler struct {
	Service *familytree.Service
}

func NewFamilyHandler(service *familytree.Service) *FamilyHandler {
	return &FamilyHandler{Service: service}
}

// MemberPayload is the request body for create and update. Relationship
// fields are free text; omitting one leaves that edge list untouched on
// update, while an empty string clears it.
type MemberPayload struct {
	FirstName  string  `json:"first_name"`
	MiddleName string  `json:"middle_name"`
	MaidenName string  `json:"maiden_name"`
	OtherNames string  `json:"other_names"`
	LastName   string  `json:"last_name"`
	Suffix     string  `json:"suffix"`
	BirthDate  string  `json:"birth_date"`
	DeathDate  *string `json:"death_date"`
	Gender     string  `json:"gender"`
	Photo      *string `json:"photo"`
	Bio        string  `json:"bio"`
	Parents    *string `json:"parents"`
	Children   *string `json:"children"`
	Spouse     *string `json:"spouse"`
	Siblings   *string `json:"siblings"`
}

func (p MemberPayload) fields() familytree.MemberFields {
	return familytree.MemberFields{
		FirstName:  p.FirstName,
		MiddleName: p.MiddleName,
		MaidenName: p.MaidenName,
		OtherNames: p.OtherNames,
		LastName:   p.LastName,
		Suffix:     p.Suffix,
		BirthDate:  p.BirthDate,
		DeathDate:  p.DeathDate,
		Gender:     p.Gender,
		Photo:      p.Photo,
		Bio:        p.Bio,
	}
}

func (p MemberPayload) edges() familytree.EdgeText {
	return familytree.EdgeText{
		Parents:  p.Parents,
		Children: p.Children,
		Spouse:   p.Spouse,
		Siblings: p.Siblings,
	}
}

func familyErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, familytree.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, familytree.ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, familytree.ErrUnauthorized):
		return http.StatusForbidden, "forbidden"
	}
	return http.StatusInternalServerError, "internal"
}

func writeFamilyError(w http.ResponseWriter, err error) {
	status, code := familyErrorStatus(err)
	WriteAPIError(w, status, code, err.Error())
}

func actorFromRequest(r *http.Request) familytree.Actor {
	user := UserFromContext(r)
	if user == nil {
		return familytree.Actor{}
	}
	return familytree.Actor{Username: user.Username, IsAdmin: user.IsAdmin}
}

func memberID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "memberID"))
}

func (h *FamilyHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	people, err := h.Service.List()
	if err != nil {
		writeFamilyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, people)
}

func (h *FamilyHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	id, err := memberID(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid member ID")
		return
	}
	person, err := h.Service.Get(id)
	if err != nil {
		writeFamilyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

func (h *FamilyHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var payload MemberPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request payload: "+err.Error())
		return
	}
	person, err := h.Service.Create(actorFromRequest(r), payload.fields(), payload.edges())
	if err != nil {
		writeFamilyError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, person)
}

func (h *FamilyHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := memberID(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid member ID")
		return
	}
	var payload MemberPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request payload: "+err.Error())
		return
	}
	person, err := h.Service.Update(actorFromRequest(r), id, payload.fields(), payload.edges())
	if err != nil {
		writeFamilyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

func (h *FamilyHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := memberID(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid member ID")
		return
	}
	if err := h.Service.Delete(actorFromRequest(r), id); err != nil {
		writeFamilyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Member deleted"})
}

// GetRelationship answers "how are these two people related" using the
// engine's fixed precedence ordering.
func (h *FamilyHandler) GetRelationship(w http.ResponseWriter, r *http.Request) {
	aID, errA := strconv.Atoi(r.URL.Query().Get("person_a"))
	bID, errB := strconv.Atoi(r.URL.Query().Get("person_b"))
	if errA != nil || errB != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "person_a and person_b query parameters are required")
		return
	}
	label, err := h.Service.Relationship(aID, bID)
	if err != nil {
		writeFamilyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"relationship": label})
}

func (h *FamilyHandler) GetMissingRelationships(w http.ResponseWriter, r *http.Request) {
	id, err := memberID(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid member ID")
		return
	}
	missing, err := h.Service.InferMissing(id)
	if err != nil {
		writeFamilyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, missing)
}

func (h *FamilyHandler) ListDuplicates(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Service.FindDuplicates()
	if err != nil {
		writeFamilyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

type MergePayload struct {
	SurvivorID   int   `json:"survivor_id"`
	DuplicateIDs []int `json:"duplicate_ids"`
}

func (h *FamilyHandler) MergeMembers(w http.ResponseWriter, r *http.Request) {
	var payload MergePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request payload: "+err.Error())
		return
	}
	if err := h.Service.Merge(actorFromRequest(r), payload.SurvivorID, payload.DuplicateIDs); err != nil {
		writeFamilyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Merge completed"})
}
