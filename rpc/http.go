package rpc

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"taprush/core"
	"taprush/core/types"
	"taprush/native/claims"
	"taprush/native/common"
	"taprush/native/leaderboard"
	"taprush/native/rewards"
	"taprush/native/turns"
	"taprush/native/verify"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB

	// AuthTokenEnv names the bearer token required for mutating methods.
	AuthTokenEnv = "TAPRUSH_RPC_TOKEN"
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeUnauthorized   = -32001
	codeServerError    = -32000
	codeGuardRejected  = -32010
)

// Server exposes the engine over a single JSON-RPC endpoint.
type Server struct {
	node      *core.Node
	authToken string
}

// NewServer wires the RPC surface over the engine. The mutation bearer token
// is read from the environment.
func NewServer(node *core.Node) *Server {
	return &Server{
		node:      node,
		authToken: strings.TrimSpace(os.Getenv(AuthTokenEnv)),
	}
}

// Start serves the endpoint on addr. It blocks until the listener fails.
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handle)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}

// RPCRequest is the inbound JSON-RPC envelope.
type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      interface{}       `json:"id"`
}

// RPCResponse is the outbound JSON-RPC envelope.
type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

// RPCError tags a failed call with the guard that fired.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, id interface{}, code int, message string) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: &RPCError{Code: code, Message: message}}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodPost {
		writeError(w, nil, codeInvalidRequest, "POST required")
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, nil, codeParseError, "unable to read request body")
		return
	}
	var req RPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, nil, codeParseError, "invalid JSON-RPC request")
		return
	}

	if mutatingMethods[req.Method] && !s.authorized(r) {
		writeError(w, req.ID, codeUnauthorized, "missing or invalid bearer token")
		return
	}

	handler, ok := methodTable[req.Method]
	if !ok {
		writeError(w, req.ID, codeMethodNotFound, fmt.Sprintf("unknown method %q", req.Method))
		return
	}
	result, err := handler(s, req.Params)
	if err != nil {
		writeError(w, req.ID, errorCode(err), err.Error())
		return
	}
	writeResult(w, req.ID, result)
}

func (s *Server) authorized(r *http.Request) bool {
	if s.authToken == "" {
		return false
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) == 1
}

// errorCode maps engine guard failures onto JSON-RPC error codes. The guard
// identity travels in the message via the module-prefixed sentinel text.
func errorCode(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidAddress),
		errors.Is(err, types.ErrInvalidGameMode),
		errors.Is(err, types.ErrInvalidVerificationTier),
		errors.Is(err, leaderboard.ErrInvalidLimit),
		errors.Is(err, core.ErrInvalidScore),
		errors.Is(err, core.ErrInvalidRound),
		errors.Is(err, errInvalidParams):
		return codeInvalidParams
	case errors.Is(err, core.ErrUnauthorized),
		errors.Is(err, core.ErrUnauthorizedSubmitter):
		return codeUnauthorized
	case errors.Is(err, verify.ErrVerificationRequired),
		errors.Is(err, verify.ErrInvalidMultiplierBounds),
		errors.Is(err, turns.ErrNoTurnsAvailable),
		errors.Is(err, turns.ErrTurnsRemaining),
		errors.Is(err, claims.ErrCooldownActive),
		errors.Is(err, rewards.ErrSupplyCapExceeded),
		errors.Is(err, rewards.ErrImplausibleScore),
		errors.Is(err, core.ErrNoActiveGame),
		errors.Is(err, core.ErrAlreadyMigrated),
		errors.Is(err, core.ErrNoFundsToMigrate),
		errors.Is(err, common.ErrModulePaused),
		errors.Is(err, common.ErrReentrantCall):
		return codeGuardRejected
	default:
		return codeServerError
	}
}

var errInvalidParams = errors.New("rpc: invalid params")

type handlerFunc func(*Server, []json.RawMessage) (interface{}, error)

var methodTable = map[string]handlerFunc{
	"game_start":              (*Server).handleGameStart,
	"game_submitScore":        (*Server).handleSubmitScore,
	"claims_status":           (*Server).handleClaimStatus,
	"claims_claim":            (*Server).handleClaim,
	"turns_available":         (*Server).handleAvailableTurns,
	"turns_timeUntilReset":    (*Server).handleTimeUntilReset,
	"turns_purchaseRefill":    (*Server).handlePurchaseRefill,
	"turns_purchasePass":      (*Server).handlePurchasePass,
	"leaderboard_top":         (*Server).handleTopN,
	"leaderboard_rank":        (*Server).handleRankOf,
	"player_stats":            (*Server).handlePlayerStats,
	"economy_pricing":         (*Server).handlePricing,
	"economy_multipliers":     (*Server).handleMultipliers,
	"economy_stats":           (*Server).handleContractStats,
	"token_migrate":           (*Server).handleMigrate,
	"verify_set":              (*Server).handleSetVerification,
	"admin_updatePricing":     (*Server).handleUpdatePricing,
	"admin_updateMultipliers": (*Server).handleUpdateMultipliers,
	"admin_setSubmitter":      (*Server).handleSetSubmitter,
	"admin_clearLeaderboard":  (*Server).handleClearLeaderboard,
	"admin_pause":             (*Server).handlePause,
	"admin_unpause":           (*Server).handleUnpause,
	"admin_withdrawFees":      (*Server).handleWithdrawFees,
}

var mutatingMethods = map[string]bool{
	"game_start":              true,
	"game_submitScore":        true,
	"claims_claim":            true,
	"turns_purchaseRefill":    true,
	"turns_purchasePass":      true,
	"token_migrate":           true,
	"verify_set":              true,
	"admin_updatePricing":     true,
	"admin_updateMultipliers": true,
	"admin_setSubmitter":      true,
	"admin_clearLeaderboard":  true,
	"admin_pause":             true,
	"admin_unpause":           true,
	"admin_withdrawFees":      true,
}

func decodeParams(params []json.RawMessage, out interface{}) error {
	if len(params) != 1 {
		return fmt.Errorf("%w: expected a single params object", errInvalidParams)
	}
	if err := json.Unmarshal(params[0], out); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return nil
}
