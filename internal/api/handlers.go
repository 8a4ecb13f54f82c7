package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hearthpoints/hearth/internal/app/store"
	"github.com/hearthpoints/hearth/internal/auth"
	"github.com/hearthpoints/hearth/internal/domain"
)

// ─── Auth ───────────────────────────────────────────────────────────────────

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h, err := s.store.Household()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	creds := h.ParentCredentials
	if creds == nil || creds.Username != req.Username {
		writeError(w, http.StatusUnauthorized, auth.ErrBadCredentials.Error())
		return
	}
	if err := auth.CheckPassword(creds.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, auth.ErrBadCredentials.Error())
		return
	}

	token, err := s.issuer.Issue(creds.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ─── Household & Children ───────────────────────────────────────────────────

func (s *Server) handleGetHousehold(w http.ResponseWriter, r *http.Request) {
	h, err := s.store.Household()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	h.ParentCredentials = nil // never leaves the process
	writeJSON(w, http.StatusOK, h)
}

type childSummary struct {
	domain.Child
	Balance int `json:"balance"`
}

func (s *Server) handleListChildren(w http.ResponseWriter, r *http.Request) {
	h, err := s.store.Household()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out := make([]childSummary, 0, len(h.Children))
	for _, c := range h.Children {
		out = append(out, childSummary{Child: c, Balance: s.store.Balance(c.ID)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleChildLedger(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"balance": s.store.Balance(childID),
		"entries": s.store.LedgerFor(childID),
	})
}

func (s *Server) handleCreateHousehold(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Children []struct {
			Name          string `json:"name"`
			Age           int    `json:"age"`
			WeeklyCashCap int    `json:"weekly_cash_cap"`
			BedSchool     string `json:"bed_school"`
			BedWeekend    string `json:"bed_weekend"`
		} `json:"children"`
		ParentUsername string `json:"parent_username"`
		ParentPassword string `json:"parent_password"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "household name is required")
		return
	}

	var hash string
	if req.ParentUsername != "" && req.ParentPassword != "" {
		var err error
		hash, err = auth.HashPassword(req.ParentPassword)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not hash password")
			return
		}
	}

	kids := make([]store.ChildSpec, 0, len(req.Children))
	for _, k := range req.Children {
		kids = append(kids, store.ChildSpec{
			Name:          k.Name,
			Age:           k.Age,
			WeeklyCashCap: k.WeeklyCashCap,
			BedSchool:     k.BedSchool,
			BedWeekend:    k.BedWeekend,
		})
	}
	if err := s.store.CreateHousehold(req.Name, kids, req.ParentUsername, hash); err != nil {
		writeStoreError(w, err)
		return
	}
	h, _ := s.store.Household()
	h.ParentCredentials = nil
	writeJSON(w, http.StatusCreated, h)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	// Start from the current settings so a partial body only overrides
	// the fields it names.
	req := s.store.Settings()
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := s.store.UpdateSettings(func(set *domain.Settings) { *set = req })
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Settings())
}

func (s *Server) handleAddChild(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          string `json:"name"`
		Age           int    `json:"age"`
		WeeklyCashCap int    `json:"weekly_cash_cap"`
		BedSchool     string `json:"bed_school"`
		BedWeekend    string `json:"bed_weekend"`
	}
	if err := decode(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "child name is required")
		return
	}
	id, err := s.store.AddChild(store.ChildSpec{
		Name:          req.Name,
		Age:           req.Age,
		WeeklyCashCap: req.WeeklyCashCap,
		BedSchool:     req.BedSchool,
		BedWeekend:    req.BedWeekend,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleUpdateChild(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")
	var req struct {
		Name          *string `json:"name"`
		Age           *int    `json:"age"`
		WeeklyCashCap *int    `json:"weekly_cash_cap"`
		BedSchool     *string `json:"bed_school"`
		BedWeekend    *string `json:"bed_weekend"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := s.store.UpdateChild(childID, func(c *domain.Child) {
		if req.Name != nil {
			c.Name = *req.Name
		}
		if req.Age != nil {
			c.Age = *req.Age
		}
		if req.WeeklyCashCap != nil {
			c.WeeklyCashCap = *req.WeeklyCashCap
		}
		if req.BedSchool != nil {
			c.Bedtimes.School = *req.BedSchool
		}
		if req.BedWeekend != nil {
			c.Bedtimes.Weekend = *req.BedWeekend
		}
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteChild(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteChild(chi.URLParam(r, "childID")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInviteCode(w http.ResponseWriter, r *http.Request) {
	code, err := s.store.GenerateInviteCode(chi.URLParam(r, "childID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"code": code})
}

// ─── Goals ──────────────────────────────────────────────────────────────────

func (s *Server) handleAddGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		TargetAmount int    `json:"target_amount"`
	}
	if err := decode(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "goal name is required")
		return
	}
	id, err := s.store.AddGoal(chi.URLParam(r, "childID"), req.Name, req.TargetAmount)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		TargetAmount int    `json:"target_amount"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := s.store.UpdateGoal(chi.URLParam(r, "childID"), chi.URLParam(r, "goalID"), req.Name, req.TargetAmount)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteGoal(chi.URLParam(r, "childID"), chi.URLParam(r, "goalID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Ledger ─────────────────────────────────────────────────────────────────

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	err := s.store.CompleteTask(chi.URLParam(r, "childID"), chi.URLParam(r, "code"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type pointsRequest struct {
	Code   string `json:"code"`
	Label  string `json:"label"`
	Points int    `json:"points"`
}

func (s *Server) handleEarn(w http.ResponseWriter, r *http.Request) {
	var req pointsRequest
	if err := decode(r, &req); err != nil || req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}
	err := s.store.AddEarn(chi.URLParam(r, "childID"), req.Code, req.Label, req.Points, true)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSpend(w http.ResponseWriter, r *http.Request) {
	var req pointsRequest
	if err := decode(r, &req); err != nil || req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}
	err := s.store.AddSpend(chi.URLParam(r, "childID"), req.Code, req.Label, req.Points)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeduct(w http.ResponseWriter, r *http.Request) {
	var req pointsRequest
	if err := decode(r, &req); err != nil || req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}
	err := s.store.AddDeduction(chi.URLParam(r, "childID"), req.Code, req.Label, req.Points)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePresetDeduction(w http.ResponseWriter, r *http.Request) {
	err := s.store.ApplyPresetDeduction(chi.URLParam(r, "childID"), chi.URLParam(r, "code"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLockout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
		Points int    `json:"points"`
	}
	if err := decode(r, &req); err != nil || req.Reason == "" {
		writeError(w, http.StatusBadRequest, "reason is required")
		return
	}
	err := s.store.AddLockout(chi.URLParam(r, "childID"), req.Reason, req.Points)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.store.AddReset(chi.URLParam(r, "childID")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveLedger(chi.URLParam(r, "entryID")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if err := s.store.VerifyTask(chi.URLParam(r, "entryID")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleIncomplete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.MarkTaskIncomplete(chi.URLParam(r, "entryID")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Requests & Cash-Outs ───────────────────────────────────────────────────

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = domain.ToYMD(time.Now())
	}
	reqs := s.store.PendingRequests(date)
	if reqs == nil {
		reqs = []domain.PendingRequest{}
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (s *Server) handleRequestTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TaskCode string `json:"task_code"`
	}
	if err := decode(r, &req); err != nil || req.TaskCode == "" {
		writeError(w, http.StatusBadRequest, "task_code is required")
		return
	}
	err := s.store.RequestTaskCompletion(chi.URLParam(r, "childID"), req.TaskCode)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleRequestScreen(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Minutes int `json:"minutes"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := s.store.RequestScreenTime(chi.URLParam(r, "childID"), req.Minutes)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleRequestPause(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RequestPause(chi.URLParam(r, "childID")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleApproveRequest(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ApproveRequest(chi.URLParam(r, "requestID")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDenyRequest(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DenyRequest(chi.URLParam(r, "requestID")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCashOuts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.CashOutRequests())
}

func (s *Server) handleRequestCashOut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int `json:"amount"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := s.store.RequestCashOut(chi.URLParam(r, "childID"), req.Amount)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleProcessCashOut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Approved    bool   `json:"approved"`
		ProcessedBy string `json:"processed_by"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProcessedBy == "" {
		req.ProcessedBy = "Parent"
	}
	err := s.store.ProcessCashOut(chi.URLParam(r, "requestID"), req.Approved, req.ProcessedBy)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Screen-Time Sessions ───────────────────────────────────────────────────

func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")
	sess, ok := s.store.Session(childID)
	if !ok {
		writeError(w, http.StatusNotFound, domain.ErrNoSession.Error())
		return
	}
	now := time.Now()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session":           sess,
		"status":            sess.DisplayStatus(now),
		"elapsed_minutes":   sess.ElapsedMinutes(now),
		"remaining_minutes": sess.RemainingMinutes(now),
		"remaining_seconds": sess.RemainingSeconds(now),
	})
}

func (s *Server) handleCanStart(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")
	h, err := s.store.Household()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	child, ok := h.ChildByID(childID)
	if !ok {
		writeStoreError(w, domain.ErrChildNotFound)
		return
	}

	now := time.Now()
	spent := s.store.SpentScreenMinutesToday(childID)
	checkErr := domain.CanStartBlockNow(*child, now, domain.MinutesOfDay(now), spent, h.Settings)
	locked := domain.LockoutActiveToday(s.store.Ledger(), childID, domain.ToYMD(now))

	resp := map[string]interface{}{
		"allowed":       checkErr == nil && !locked,
		"locked_out":    locked,
		"spent_minutes": spent,
		"cap_minutes":   domain.DailyCapMinutes(*child, now, h.Settings),
	}
	if checkErr != nil {
		resp["reason"] = checkErr.Error()
	} else if locked {
		resp["reason"] = "lockout active"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStartScreen(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Minutes int `json:"minutes"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Minutes == 0 {
		req.Minutes = s.store.Settings().BlockMinutes
	}
	err := s.store.StartScreenTime(chi.URLParam(r, "childID"), req.Minutes)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handlePauseScreen(w http.ResponseWriter, r *http.Request) {
	if err := s.store.PauseScreenTime(chi.URLParam(r, "childID")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResumeScreen(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ResumeScreenTime(chi.URLParam(r, "childID")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEndScreen(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refund bool `json:"refund"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := s.store.EndScreenTime(chi.URLParam(r, "childID"), req.Refund)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Admin ──────────────────────────────────────────────────────────────────

func (s *Server) handleResetTasks(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChildID string `json:"child_id"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.store.ResetTodayTasks(req.ChildID); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAutoBalance(w http.ResponseWriter, r *http.Request) {
	if err := s.store.AutoBalancePoints(); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Settings())
}

func (s *Server) handleAutoComplete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.AutoCompleteYesterday(); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTeamBonus(w http.ResponseWriter, r *http.Request) {
	if err := s.store.AddTeamBonus(); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
