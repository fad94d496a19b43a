package postgres

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// validID las claves son UUID canónicos (36 caracteres): un id con otro formato
// no puede existir en ninguna tabla.
func validID(id string) bool {
	return len(id) == 36 && uuid.Validate(id) == nil
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation 23503: referencia a una fila inexistente.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// isInvalidTextRepresentation 22P02: PostgreSQL no pudo convertir el texto (UUID mal formado en una FK).
func isInvalidTextRepresentation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

// nullIfEmpty guarda NULL en lugar de cadena vacía (columnas FK opcionales).
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// derefString para columnas NULL escaneadas en *string.
func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// jsonbMap pgx serializa el mapa a jsonb; nil se guarda como '{}'.
func jsonbMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
