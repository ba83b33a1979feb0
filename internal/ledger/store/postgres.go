package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/chat-wager-ledger/internal/ledger"
	"github.com/radieske/chat-wager-ledger/internal/ledger/payload"
)

// Postgres é o ledger durável. A unicidade de (game, user_id, target) é a
// chave primária da tabela wagers; o check-and-insert usa ON CONFLICT.
type Postgres struct {
	db    *sql.DB
	codec *payload.Codec
}

func NewPostgres(db *sql.DB, codec *payload.Codec) *Postgres {
	return &Postgres{db: db, codec: codec}
}

func (p *Postgres) Place(ctx context.Context, bet *ledger.BetRecord) error {
	raw, err := p.codec.Encode(bet.Game, bet.Payload)
	if err != nil {
		return err
	}

	res, err := p.db.ExecContext(ctx, `
		INSERT INTO wagers (game, user_id, target, amount, direction, resolver, payload, placed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (game, user_id, target) DO NOTHING`,
		bet.Game, bet.User, bet.Target, bet.Amount, int(bet.Direction), bet.Resolver, raw, bet.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wager: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert wager: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, bet.Key())
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, key ledger.Key) (*ledger.BetRecord, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT amount, direction, resolver, payload, placed_at
		FROM wagers WHERE game=$1 AND user_id=$2 AND target=$3`,
		key.Game, key.User, key.Target,
	)
	return p.scanBet(row, key)
}

func (p *Postgres) Settle(ctx context.Context, key ledger.Key, out ledger.Outcome) (*ResolvedRecord, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin settle: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		DELETE FROM wagers WHERE game=$1 AND user_id=$2 AND target=$3
		RETURNING amount, direction, resolver, payload, placed_at`,
		key.Game, key.User, key.Target,
	)
	bet, err := p.scanBet(row, key)
	if err != nil {
		return nil, err
	}

	rec := ResolvedRecord{
		ID:        uuid.NewString(),
		Bet:       *bet,
		Outcome:   out,
		SettledAt: time.Now().UTC(),
	}

	raw, err := p.codec.Encode(bet.Game, bet.Payload)
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO resolved_wagers
		  (id, game, user_id, target, amount, direction, resolver, payload, won, delta, detail, placed_at, settled_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		rec.ID, bet.Game, bet.User, bet.Target, bet.Amount, int(bet.Direction), bet.Resolver,
		raw, out.Won, out.Delta, out.Detail, bet.PlacedAt, rec.SettledAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert resolved wager: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit settle: %w", err)
	}
	return &rec, nil
}

func (p *Postgres) Cancel(ctx context.Context, key ledger.Key) error {
	res, err := p.db.ExecContext(ctx, `
		DELETE FROM wagers WHERE game=$1 AND user_id=$2 AND target=$3`,
		key.Game, key.User, key.Target,
	)
	if err != nil {
		return fmt.Errorf("cancel wager: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("cancel wager: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNoSuchPendingBet, key)
	}
	return nil
}

func (p *Postgres) PendingFor(ctx context.Context, user string) ([]ledger.BetRecord, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT game, target, amount, direction, resolver, payload, placed_at
		FROM wagers WHERE user_id=$1
		ORDER BY game, target`,
		user,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending wagers: %w", err)
	}
	defer rows.Close()

	out := make([]ledger.BetRecord, 0)
	for rows.Next() {
		var (
			bet ledger.BetRecord
			dir int
			raw []byte
		)
		bet.User = user
		if err := rows.Scan(&bet.Game, &bet.Target, &bet.Amount, &dir, &bet.Resolver, &raw, &bet.PlacedAt); err != nil {
			return nil, fmt.Errorf("scan pending wager: %w", err)
		}
		bet.Direction = ledger.Direction(dir)
		pl, err := p.codec.Decode(bet.Game, raw)
		if err != nil {
			return nil, err
		}
		bet.Payload = pl
		out = append(out, bet)
	}
	return out, rows.Err()
}

func (p *Postgres) scanBet(row *sql.Row, key ledger.Key) (*ledger.BetRecord, error) {
	var (
		dir int
		raw []byte
	)
	bet := ledger.BetRecord{Game: key.Game, User: key.User, Target: key.Target}
	err := row.Scan(&bet.Amount, &dir, &bet.Resolver, &raw, &bet.PlacedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchPendingBet, key)
	}
	if err != nil {
		return nil, fmt.Errorf("scan wager: %w", err)
	}
	bet.Direction = ledger.Direction(dir)

	pl, err := p.codec.Decode(bet.Game, raw)
	if err != nil {
		return nil, err
	}
	bet.Payload = pl
	return &bet, nil
}
