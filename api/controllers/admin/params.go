package admin

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/giftshop-backend/api/validators"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
)

// pathID reads a numeric chi URL parameter.
func pathID(r *http.Request, name string) (uint, error) {
	return validators.ParseID(chi.URLParam(r, name), name)
}

// queryID reads an optional numeric filter such as ?customerId=3.
func queryID(r *http.Request, key string) (*uint, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := validators.ParseID(raw, key)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// queryEnum parses an optional enum filter with the enum's own parser.
func queryEnum[T any](r *http.Request, key string, parse func(string) (T, error)) (*T, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := parseEnumValue(key, raw, parse)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func parseEnumValue[T any](key, raw string, parse func(string) (T, error)) (T, error) {
	value, err := parse(strings.TrimSpace(raw))
	if err != nil {
		var zero T
		return zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Revisá los datos ingresados.").WithDetails(map[string]string{key: "no es válido"})
	}
	return value, nil
}
