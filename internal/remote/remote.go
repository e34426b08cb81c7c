package remote

import "context"

// Database — обобщенный клиент удаленного хранилища данных.
// Работает с именованными коллекциями (таблицами), строки передаются
// как Row. Ключи назначаются хранилищем при вставке.
type Database interface {
	Select(ctx context.Context, collection string, opts SelectOptions) ([]Row, error)
	Insert(ctx context.Context, collection string, row Row) (Row, error)
	Update(ctx context.Context, collection string, key string, row Row) (Row, error)
	Delete(ctx context.Context, collection string, key string) error
}

// ObjectStorage — клиент объектного хранилища для загрузки файлов
// и получения публичных ссылок на них.
type ObjectStorage interface {
	UploadObject(ctx context.Context, bucket, path string, data []byte, allowOverwrite bool) error
	PublicURL(bucket, path string) string
}

type SelectOptions struct {
	OrderBy    string // колонка сортировки, пустая строка — без сортировки
	Descending bool
	Limit      uint64 // 0 — без ограничения
}
