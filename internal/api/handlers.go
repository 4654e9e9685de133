package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/talgya/homestead/internal/persistence"
)

// coordBody is the request body shared by tile-targeted control endpoints.
type coordBody struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// plantBody adds the crop type to a coordinate request.
type plantBody struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Crop string `json:"crop"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(v); err != nil {
		http.Error(w, "bad request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// ── Public reads ─────────────────────────────────────────────────────────

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Game.Summarize())
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	x, y, err := coordParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	t := s.Game.GetTile(x, y)
	if t == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"developed": false,
			"unlocked":  s.Game.IsTileUnlocked(x, y),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"developed": true,
		"unlocked":  s.Game.IsTileUnlocked(x, y),
		"tile":      t,
	})
}

func (s *Server) handleTiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Game.AllTiles())
}

func (s *Server) handleAreas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Game.AllAreas())
}

func (s *Server) handleArea(w http.ResponseWriter, r *http.Request) {
	x, y, err := coordParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a := s.Game.GetArea(x, y)
	writeJSON(w, http.StatusOK, map[string]any{
		"area":        a,
		"unlocked":    a != nil && a.Unlocked,
		"purchasable": s.Game.AreaPurchasable(x, y),
		"cost":        s.Game.AreaCost(x, y),
	})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	x, y, err := coordParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"progress": s.Game.CropProgress(x, y)})
}

func (s *Server) handleFertilizer(w http.ResponseWriter, r *http.Request) {
	x, y, err := coordParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	used, max := s.Game.FertilizerUsage(x, y)
	writeJSON(w, http.StatusOK, map[string]int{"used": used, "max": max})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"balance": s.Game.Balance()})
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	entries := s.Game.LedgerHistory()
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Game.Stats())
}

func (s *Server) handleGround(w http.ResponseWriter, r *http.Request) {
	x, y, err := coordParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{
		"shade":    s.Game.GroundShade(x, y),
		"moisture": s.Game.GroundMoisture(x, y),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := persistence.ExportJSON(s.Game.SnapshotState())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="homestead-save.json"`)
	w.Write(data)
}

// ── Control plane ────────────────────────────────────────────────────────

func (s *Server) handleTill(w http.ResponseWriter, r *http.Request) {
	var b coordBody
	if !decodeBody(w, r, &b) {
		return
	}
	writeJSON(w, http.StatusOK, s.Game.TillSoil(b.X, b.Y))
}

func (s *Server) handleRoad(w http.ResponseWriter, r *http.Request) {
	var b coordBody
	if !decodeBody(w, r, &b) {
		return
	}
	writeJSON(w, http.StatusOK, s.Game.BuildRoad(b.X, b.Y))
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	var b coordBody
	if !decodeBody(w, r, &b) {
		return
	}
	writeJSON(w, http.StatusOK, s.Game.ClearTile(b.X, b.Y))
}

func (s *Server) handlePlant(w http.ResponseWriter, r *http.Request) {
	var b plantBody
	if !decodeBody(w, r, &b) {
		return
	}
	writeJSON(w, http.StatusOK, s.Game.PlantCrop(b.X, b.Y, b.Crop))
}

func (s *Server) handleWater(w http.ResponseWriter, r *http.Request) {
	var b coordBody
	if !decodeBody(w, r, &b) {
		return
	}
	writeJSON(w, http.StatusOK, s.Game.WaterTile(b.X, b.Y))
}

func (s *Server) handleFertilize(w http.ResponseWriter, r *http.Request) {
	var b coordBody
	if !decodeBody(w, r, &b) {
		return
	}
	writeJSON(w, http.StatusOK, s.Game.FertilizeTile(b.X, b.Y))
}

func (s *Server) handleHarvest(w http.ResponseWriter, r *http.Request) {
	var b coordBody
	if !decodeBody(w, r, &b) {
		return
	}
	writeJSON(w, http.StatusOK, s.Game.HarvestCrop(b.X, b.Y))
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var b coordBody
	if !decodeBody(w, r, &b) {
		return
	}
	writeJSON(w, http.StatusOK, s.Game.PurchaseArea(b.X, b.Y))
}

// handleTool reads the selected tool on GET and changes it on POST.
func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		writeJSON(w, http.StatusOK, map[string]string{"tool": s.Game.SelectedTool()})
		return
	}
	s.adminOnly(func(w http.ResponseWriter, r *http.Request) {
		var b struct {
			Tool string `json:"tool"`
		}
		if !decodeBody(w, r, &b) {
			return
		}
		writeJSON(w, http.StatusOK, s.Game.SelectTool(b.Tool))
	})(w, r)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "persistence disabled", http.StatusServiceUnavailable)
		return
	}
	if err := s.DB.SaveGame(s.Game.ExportState()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, 16<<20))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ws, err := persistence.ImportJSON(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.Game.RestoreState(ws); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"imported": true})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.Game.Reset()
	writeJSON(w, http.StatusOK, map[string]bool{"reset": true})
}
