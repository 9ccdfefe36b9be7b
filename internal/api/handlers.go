package api

import (
	"encoding/json"
	"net/http"

	sdkmath "cosmossdk.io/math"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/tentaclefi/tentacle-locker/internal/types"
)

type errorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		//nolint:errcheck
		json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, err *types.Error) {
	writeJSON(w, err.StatusCode, errorResponse{
		ErrorCode: err.ErrorCode.String(),
		Message:   err.Error(),
	})
}

func caller(r *http.Request) types.Ref {
	return types.Ref(r.Header.Get(CallerHeader))
}

func decodeBody[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var body T
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, types.NewValidationFailedError(err))
		return nil, false
	}
	return &body, true
}

type configureRequest struct {
	ClaimTypeID                        types.ClaimTypeID `json:"claim_type_id"`
	HasDefaultHelper                   bool              `json:"has_default_helper"`
	ForceDefault                       bool              `json:"force_default"`
	RevertIfDefaultForcedAndOverridden bool              `json:"revert_if_default_forced_and_overridden"`
	DerivativeContract                 types.Ref         `json:"derivative_contract"`
	DefaultHelper                      types.Ref         `json:"default_helper,omitempty"`
}

func (s *Server) handleConfigure(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBody[configureRequest](w, r)
	if !ok {
		return
	}

	cfg := types.ClaimTypeConfig{
		HasDefaultHelper:                   req.HasDefaultHelper,
		ForceDefault:                       req.ForceDefault,
		RevertIfDefaultForcedAndOverridden: req.RevertIfDefaultForcedAndOverridden,
		DerivativeContract:                 req.DerivativeContract,
	}

	if err := s.service.Configure(r.Context(), caller(r), req.ClaimTypeID, cfg, req.DefaultHelper); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type createRequest struct {
	ClaimTypeID    types.ClaimTypeID `json:"claim_type_id"`
	PositionID     types.PositionID  `json:"position_id"`
	Beneficiary    types.Ref         `json:"beneficiary"`
	SizeHint       sdkmath.Int       `json:"size_hint,omitempty"`
	HelperOverride types.Ref         `json:"helper_override,omitempty"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBody[createRequest](w, r)
	if !ok {
		return
	}

	err := s.service.Create(
		r.Context(), caller(r),
		req.ClaimTypeID, req.PositionID, req.Beneficiary, req.SizeHint, req.HelperOverride,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, nil)
}

type destroyRequest struct {
	ClaimTypeID types.ClaimTypeID `json:"claim_type_id"`
	PositionID  types.PositionID  `json:"position_id"`
	From        types.Ref         `json:"from"`
}

func (s *Server) handleDestroy(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBody[destroyRequest](w, r)
	if !ok {
		return
	}

	err := s.service.Destroy(r.Context(), caller(r), req.ClaimTypeID, req.PositionID, req.From)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type unlockedResponse struct {
	Unlocked bool `json:"unlocked"`
}

func (s *Server) handleIsUnlocked(w http.ResponseWriter, r *http.Request) {
	positionID := types.PositionID(chi.URLParam(r, "positionID"))
	authorityID := types.Ref(r.URL.Query().Get("authority"))

	unlocked, err := s.service.IsUnlocked(r.Context(), authorityID, positionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unlockedResponse{Unlocked: unlocked})
}

type registrationHookRequest struct {
	Beneficiary   types.Ref          `json:"beneficiary"`
	StakingAmount sdkmath.Int        `json:"staking_amount"`
	PositionIDs   []types.PositionID `json:"position_ids"`
	Instructions  json.RawMessage    `json:"instructions"`
}

func (s *Server) handleRegistrationHook(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBody[registrationHookRequest](w, r)
	if !ok {
		return
	}

	instructions, err := types.DecodeCreateInstructions(req.Instructions)
	if err != nil {
		writeError(w, types.NewValidationFailedError(err))
		return
	}

	hookErr := s.service.OnRegistration(
		r.Context(), caller(r),
		req.Beneficiary, req.StakingAmount, req.PositionIDs, instructions,
	)
	if hookErr != nil {
		writeError(w, hookErr)
		return
	}
	log.Ctx(r.Context()).Info().
		Int("positions", len(req.PositionIDs)).
		Int("claimTypes", len(instructions)).
		Msg("registration hook processed")
	writeJSON(w, http.StatusNoContent, nil)
}

type redemptionHookRequest struct {
	PositionID types.PositionID `json:"position_id"`
	Owner      types.Ref        `json:"owner"`
}

func (s *Server) handleRedemptionHook(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBody[redemptionHookRequest](w, r)
	if !ok {
		return
	}

	if err := s.service.OnRedemption(r.Context(), caller(r), req.PositionID, req.Owner); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
