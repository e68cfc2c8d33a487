package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

const conversationsTable = "conversations"

var conversationColumns = []string{
	"id", "created", "language", "level", "focus", "context", "conversation", "feedback",
}

// conversationRepo implements ConversationRepo with the ent SQL builder.
type conversationRepo struct {
	db *sql.DB
}

func (r *conversationRepo) Save(ctx context.Context, c *Conversation) error {
	if c.ID == "" {
		return errors.New("save conversation: empty id")
	}
	turns := string(c.Turns)
	if turns == "" {
		turns = "[]"
	}
	feedback := string(c.Feedback)
	if feedback == "" {
		feedback = "{}"
	}

	query, args := builder().Insert(conversationsTable).
		Columns(conversationColumns...).
		Values(c.ID, formatTime(c.Created), c.Language, c.Level, c.Focus, c.Context, turns, feedback).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save conversation %s: %w", c.ID, err)
	}
	return nil
}

func (r *conversationRepo) List(ctx context.Context, opts QueryOpts) ([]Conversation, error) {
	sel := builder().Select(conversationColumns...).
		From(entsql.Table(conversationsTable)).
		OrderBy(entsql.Desc("created"))
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("created", formatTime(opts.From)))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("created", formatTime(opts.To)))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *conversationRepo) Get(ctx context.Context, id string) (*Conversation, error) {
	query, args := builder().Select(conversationColumns...).
		From(entsql.Table(conversationsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	c, err := scanConversation(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation %s: %w", id, err)
	}
	return c, nil
}

func (r *conversationRepo) DeleteAll(ctx context.Context) (int64, error) {
	query, args := builder().Delete(conversationsTable).Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete conversations: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row rowScanner) (*Conversation, error) {
	var (
		c               Conversation
		created         string
		turns, feedback string
	)
	if err := row.Scan(&c.ID, &created, &c.Language, &c.Level, &c.Focus, &c.Context, &turns, &feedback); err != nil {
		return nil, err
	}
	t, err := parseTime(created)
	if err != nil {
		return nil, fmt.Errorf("parse created for %s: %w", c.ID, err)
	}
	c.Created = t
	c.Turns = []byte(turns)
	c.Feedback = []byte(feedback)
	return &c, nil
}
