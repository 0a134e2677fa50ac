package httpapi

import (
	"fmt"
	"net/http"

	"mealcore/internal/repo"
	"mealcore/pkg/domain"
)

// inventoryItem carries the stored fields plus the derived ones, computed at
// the response boundary and never persisted.
type inventoryItem struct {
	domain.Inventory
	PercentFull int  `json:"percentFull"`
	IsLowStock  bool `json:"isLowStock"`
}

func toInventoryItems(items []domain.Inventory) []inventoryItem {
	out := make([]inventoryItem, len(items))
	for i, item := range items {
		out[i] = inventoryItem{Inventory: item, PercentFull: item.PercentFull(), IsLowStock: item.IsLowStock()}
	}
	return out
}

func (s *Server) handleListInventory(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())
	schoolID, err := schoolScope(ident, r.URL.Query().Get("schoolId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items, err := s.repos.Inventory.Find(r.Context(), schoolID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeList(w, toInventoryItems(items), len(items))
}

func (s *Server) handleInventoryAlerts(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())
	schoolID, err := schoolScope(ident, r.URL.Query().Get("schoolId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items, err := s.repos.Inventory.Find(r.Context(), schoolID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	alerts := []inventoryItem{}
	for _, item := range items {
		if item.IsLowStock() {
			alerts = append(alerts, inventoryItem{Inventory: item, PercentFull: item.PercentFull(), IsLowStock: true})
		}
	}
	s.writeList(w, alerts, len(alerts))
}

type addStockRequest struct {
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
}

func (s *Server) handleAddStock(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())
	var req addStockRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	item, err := s.repos.Inventory.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ident.Role == domain.RoleSchoolAdmin && item.SchoolID != ident.SchoolID {
		s.writeFailure(w, http.StatusForbidden, "Insufficient permissions")
		return
	}
	updated, err := s.repos.Inventory.AddStock(r.Context(), item.ID, req.Quantity, ident.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.repos.Activity.Log(r.Context(), domain.ActivityLog{
		SchoolID:    &updated.SchoolID,
		Type:        repo.ActivityStockAdded,
		Title:       "Inventory Updated",
		Description: fmt.Sprintf("Added %g%s of %s", req.Quantity, updated.Unit, updated.Name),
		UserID:      ident.UserID,
		Icon:        "truck",
		IconColor:   "orange",
	}); err != nil {
		s.log.Warn("log activity", "type", repo.ActivityStockAdded, "err", err)
	}
	s.writeMessage(w, http.StatusOK, "Stock updated", inventoryItem{
		Inventory: updated, PercentFull: updated.PercentFull(), IsLowStock: updated.IsLowStock(),
	})
}
