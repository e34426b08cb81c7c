package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/lib/pq"

	"vintoura/internal/remote"
)

var ErrNotFound = errors.New("row not found")

// Client реализует remote.Database поверх Postgres. Строки читаются и
// возвращаются через row_to_json, поэтому клиент не знает схему таблиц.
type Client struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func New(ctx context.Context, dsn string) (*Client, error) {
	const op = "remote.postgres.New"

	db, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return NewWithPool(db), nil
}

func NewWithPool(db *pgxpool.Pool) *Client {
	return &Client{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (c *Client) Stop() {
	c.db.Close()
}

func (c *Client) Select(ctx context.Context, collection string, opts remote.SelectOptions) ([]remote.Row, error) {
	const op = "remote.postgres.Select"

	builder := c.sb.Select(rowToJSON(collection)).From(collection)
	if opts.OrderBy != "" {
		order := opts.OrderBy + " ASC"
		if opts.Descending {
			order = opts.OrderBy + " DESC"
		}
		builder = builder.OrderBy(order)
	}
	if opts.Limit > 0 {
		builder = builder.Limit(opts.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	rows, err := c.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []remote.Row
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%s: can't scan row: %w", op, err)
		}

		var row remote.Row
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (c *Client) Insert(ctx context.Context, collection string, row remote.Row) (remote.Row, error) {
	const op = "remote.postgres.Insert"

	row = remote.StripServerColumns(row)

	columns := sortedColumns(row)
	values := make([]any, 0, len(columns))
	for _, col := range columns {
		values = append(values, encodeArg(row[col]))
	}

	query, args, err := c.sb.Insert(collection).
		Columns(columns...).
		Values(values...).
		Suffix("RETURNING " + rowToJSON(collection)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	return c.queryRow(ctx, op, query, args)
}

func (c *Client) Update(ctx context.Context, collection string, key string, row remote.Row) (remote.Row, error) {
	const op = "remote.postgres.Update"

	id, err := uuid.Parse(key)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid key: %w", op, err)
	}

	builder := c.sb.Update(collection)
	for _, col := range sortedColumns(row) {
		if col == remote.KeyColumn {
			continue
		}
		builder = builder.Set(col, encodeArg(row[col]))
	}

	query, args, err := builder.
		Where(sq.Eq{remote.KeyColumn: id}).
		Suffix("RETURNING " + rowToJSON(collection)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	return c.queryRow(ctx, op, query, args)
}

func (c *Client) Delete(ctx context.Context, collection string, key string) error {
	const op = "remote.postgres.Delete"

	id, err := uuid.Parse(key)
	if err != nil {
		return fmt.Errorf("%s: invalid key: %w", op, err)
	}

	query, args, err := c.sb.Delete(collection).
		Where(sq.Eq{remote.KeyColumn: id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if _, err := c.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Client) queryRow(ctx context.Context, op, query string, args []any) (remote.Row, error) {
	var raw []byte
	if err := c.db.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var row remote.Row
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return row, nil
}

func rowToJSON(collection string) string {
	return "row_to_json(" + collection + ")"
}

func sortedColumns(row remote.Row) []string {
	columns := make([]string, 0, len(row))
	for col := range row {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}

// encodeArg приводит JSON-значения к типам, которые понимает pgx:
// массивы строк уходят как text[], вложенные объекты — как jsonb.
func encodeArg(v any) any {
	switch val := v.(type) {
	case []any:
		strs := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				data, _ := json.Marshal(val)
				return data
			}
			strs = append(strs, s)
		}
		return pq.Array(strs)
	case map[string]any:
		data, _ := json.Marshal(val)
		return data
	default:
		return v
	}
}
