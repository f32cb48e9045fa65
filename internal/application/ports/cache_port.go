package ports

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Cache puerto de caché de lecturas (listados y tablero). Las claves llevan una versión por
// empresa y namespace; Bump la incrementa y deja obsoletas las entradas anteriores.
type Cache interface {
	// Key compone la clave con la versión actual de (companyID, namespace).
	Key(ctx context.Context, companyID, namespace string, parts ...string) (string, error)
	// FetchJSON lee key en dest o la puebla con loader.
	FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error
	// Bump invalida todo el namespace de la empresa.
	Bump(ctx context.Context, companyID, namespace string) error
}

// Namespaces de caché.
const (
	CacheClients   = "clients"
	CacheArticles  = "articles"
	CacheInvoices  = "invoices"
	CacheSales     = "sales"
	CacheDashboard = "dashboard"
)

// NopCache siempre llama al loader. Se usa sin Redis y en pruebas.
type NopCache struct{}

var _ Cache = NopCache{}

// Key une las partes sin versión.
func (NopCache) Key(_ context.Context, companyID, namespace string, parts ...string) (string, error) {
	return namespace + ":" + companyID + KeyParts(parts...), nil
}

// KeyParts codifica cada parte como ":<len>.<valor>", así un ":" dentro de un valor
// (filtro de búsqueda, fecha) no puede producir la misma clave que otra combinación.
func KeyParts(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(len(p)))
		b.WriteByte('.')
		b.WriteString(p)
	}
	return b.String()
}

// FetchJSON ejecuta loader y copia el resultado en dest vía JSON.
func (NopCache) FetchJSON(ctx context.Context, _ string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if loader == nil {
		return errors.New("cache: loader requerido")
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Bump no hace nada.
func (NopCache) Bump(context.Context, string, string) error { return nil }
