package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/radieske/chat-wager-ledger/internal/ledger"
	"github.com/radieske/chat-wager-ledger/internal/ledger-service/dto"
	"github.com/radieske/chat-wager-ledger/internal/ledger/payload"
	"github.com/radieske/chat-wager-ledger/internal/ledger/resolver"
	"github.com/radieske/chat-wager-ledger/internal/ledger/store"
	"github.com/radieske/chat-wager-ledger/internal/riot"
	"github.com/radieske/chat-wager-ledger/internal/settlement"
	"github.com/radieske/chat-wager-ledger/pkg/contracts/events"
)

type Server struct {
	log   *zap.Logger
	svc   *settlement.Service
	codec *payload.Codec
	riot  *riot.Client
	publ  interface {
		PublishWagerPlaced(context.Context, events.WagerPlaced) error
	}
}

func NewServer(log *zap.Logger, svc *settlement.Service, codec *payload.Codec, rc *riot.Client, p interface {
	PublishWagerPlaced(context.Context, events.WagerPlaced) error
}) *Server {
	return &Server{log: log, svc: svc, codec: codec, riot: rc, publ: p}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/wagers", s.placeWager)            // POST
	mux.HandleFunc("/wagers/settle", s.settleWager)    // POST
	mux.HandleFunc("/wagers/cancel", s.cancelWager)    // POST
	mux.HandleFunc("/wagers/pending", s.pendingWagers) // GET ?user=
	mux.HandleFunc("/summoner", s.summoner)            // GET ?id=|accountId=|name=
	return mux
}

func (s *Server) placeWager(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.PlaceWagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	var pl payload.Payload
	if len(req.Data) > 0 {
		decoded, err := s.codec.Decode(req.Game, req.Data)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		pl = decoded
	}

	bet, err := ledger.New(s.codec, req.Game, req.User, req.Target, req.Amount, ledger.Direction(req.Direction), req.Resolver, pl)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	if err := s.svc.Place(r.Context(), bet); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	raw, err := s.codec.Encode(bet.Game, bet.Payload)
	if err != nil {
		// aposta já no ledger; o evento sai sem payload
		s.log.Warn("payload encode for event", zap.Error(err))
	}
	if perr := s.publ.PublishWagerPlaced(r.Context(), events.WagerPlaced{
		Game:      bet.Game,
		User:      bet.User,
		Target:    bet.Target,
		Amount:    bet.Amount,
		Direction: int(bet.Direction),
		Resolver:  bet.Resolver,
		Payload:   raw,
	}); perr != nil {
		s.log.Warn("wager_placed publish failed", zap.String("key", bet.Key().String()), zap.Error(perr))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(dto.PlaceWagerResponse{Status: "PENDING"})
}

func (s *Server) settleWager(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.SettleWagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	var result payload.Payload
	if len(req.Data) > 0 {
		decoded, err := s.codec.Decode(req.Game, req.Data)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		result = decoded
	}

	key := ledger.Key{Game: req.Game, User: req.User, Target: req.Target}
	rec, err := s.svc.Settle(r.Context(), key, result)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	writeJSON(w, dto.SettleWagerResponse{
		RecordID:  rec.ID,
		Won:       rec.Outcome.Won,
		Delta:     rec.Outcome.Delta,
		Detail:    rec.Outcome.Detail,
		SettledAt: rec.SettledAt,
	})
}

func (s *Server) cancelWager(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.CancelWagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	key := ledger.Key{Game: req.Game, User: req.User, Target: req.Target}
	if err := s.svc.Cancel(r.Context(), key); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) pendingWagers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	user := r.URL.Query().Get("user")
	if user == "" {
		http.Error(w, "user required", http.StatusBadRequest)
		return
	}

	bets, err := s.svc.Store.PendingFor(r.Context(), user)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := dto.PendingWagersResponse{User: user, Wagers: make([]dto.WagerView, 0, len(bets))}
	for i := range bets {
		bet := &bets[i]
		raw, _ := s.codec.Encode(bet.Game, bet.Payload)
		resp.Wagers = append(resp.Wagers, dto.WagerView{
			Game:      bet.Game,
			User:      bet.User,
			Target:    bet.Target,
			Amount:    bet.Amount,
			Direction: int(bet.Direction),
			Resolver:  bet.Resolver,
			Data:      raw,
			PlacedAt:  bet.PlacedAt,
		})
	}
	writeJSON(w, resp)
}

// summoner repassa o lookup ao colaborador externo; o resultado costuma virar
// target de apostas do jogo lcs.
func (s *Server) summoner(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var key riot.SummonerKey
	q := r.URL.Query()
	if v := q.Get("id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		key.ID = id
	}
	if v := q.Get("accountId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "bad accountId", http.StatusBadRequest)
			return
		}
		key.AccountID = id
	}
	key.Name = q.Get("name")

	sum, err := s.riot.Summoner(r.Context(), key)
	if err != nil {
		if errors.Is(err, riot.ErrAmbiguousKey) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, sum)
}

// statusFor mapeia os erros sentinela do ledger para códigos HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrMissingField),
		errors.Is(err, ledger.ErrPayloadMismatch),
		errors.Is(err, payload.ErrMalformedPayload),
		errors.Is(err, payload.ErrUnsupportedPayloadType):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrDuplicateKey),
		errors.Is(err, resolver.ErrDuplicateResolver),
		errors.Is(err, resolver.ErrNoResolverFound),
		errors.Is(err, resolver.ErrUnknownResolverName):
		return http.StatusConflict
	case errors.Is(err, store.ErrNoSuchPendingBet):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrResolverTimeout):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
