package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"frenchdriver/internal/models"
	"frenchdriver/internal/repositories"
)

type DriverHandler struct {
	Repo  *repositories.DriverRepository
	Cache *repositories.DriverRosterCache
}

func (h *DriverHandler) CreateDriver(w http.ResponseWriter, r *http.Request) {
	var driver models.Driver
	if err := json.NewDecoder(r.Body).Decode(&driver); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if driver.Name == "" || driver.Phone == "" {
		http.Error(w, "Name and phone are required", http.StatusBadRequest)
		return
	}
	created, err := h.Repo.CreateDriver(r.Context(), driver)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.Cache.Invalidate(r.Context())
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *DriverHandler) GetDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.Cache.Roster(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if drivers == nil {
		drivers = []models.Driver{}
	}
	json.NewEncoder(w).Encode(drivers)
}

func (h *DriverHandler) GetDriverByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "Invalid driver ID", http.StatusBadRequest)
		return
	}
	driver, err := h.Repo.GetDriverByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	json.NewEncoder(w).Encode(driver)
}

func (h *DriverHandler) UpdateDriver(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "Invalid driver ID", http.StatusBadRequest)
		return
	}
	var driver models.Driver
	if err := json.NewDecoder(r.Body).Decode(&driver); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	driver.ID = id
	updated, err := h.Repo.UpdateDriver(r.Context(), driver)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.Cache.Invalidate(r.Context())
	json.NewEncoder(w).Encode(updated)
}

func (h *DriverHandler) DeleteDriver(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "Invalid driver ID", http.StatusBadRequest)
		return
	}
	if err := h.Repo.DeleteDriver(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	h.Cache.Invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
