package remote

import (
	"encoding/json"
	"fmt"
)

// Row — строка коллекции в виде, пригодном для JSON-кодирования.
type Row map[string]any

// Системные колонки, которые назначает хранилище. Из входных строк
// при вставке их нужно убирать.
const (
	KeyColumn       = "id"
	CreatedAtColumn = "created_at"
	UpdatedAtColumn = "updated_at"
)

// EncodeRow кодирует доменную сущность в Row через JSON-представление.
func EncodeRow(v any) (Row, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("remote: encode row: %w", err)
	}

	var row Row
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("remote: encode row: %w", err)
	}

	return row, nil
}

// DecodeRow декодирует Row в доменную сущность.
func DecodeRow(row Row, dst any) error {
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("remote: decode row: %w", err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("remote: decode row: %w", err)
	}

	return nil
}

// DecodeRows декодирует набор строк.
func DecodeRows[T any](rows []Row) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		var v T
		if err := DecodeRow(row, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// StripServerColumns возвращает копию строки без ключа и таймстемпов.
func StripServerColumns(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		switch k {
		case KeyColumn, CreatedAtColumn, UpdatedAtColumn:
			continue
		}
		out[k] = v
	}
	return out
}
