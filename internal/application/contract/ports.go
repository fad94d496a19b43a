package contract

import (
	"context"
	"io"

	"github.com/jhoicas/studio-portal/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repos atados a ella.
// Si fn retorna error se hace rollback.
type TxRunner interface {
	RunContract(ctx context.Context, fn func(
		contracts repository.ContractRepository,
		audit repository.AuditLogRepository,
	) error) error
}

// BlobStore almacenamiento de objetos para documentos e imágenes de firma.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PresignedURL(ctx context.Context, key string) (string, error)
}

// Upload archivo recibido en el alta de un contrato.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
