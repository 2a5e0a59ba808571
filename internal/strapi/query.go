package strapi

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Pavel2232/ShopBot/internal/model"
)

// maxExpandDepth bounds relation expansion: a relation and the relations of its entries, no further.
const maxExpandDepth = 2

// Query collects equality filters and relation expansion for one request.
type Query struct {
	values url.Values
	expand int
}

func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

// Eq adds filters[<field>][$eq]=<value>. Nested fields use dots: "cart.id" -> filters[cart][id][$eq].
func (q *Query) Eq(field, value string) *Query {
	key := "filters[" + strings.ReplaceAll(field, ".", "][") + "][$eq]"
	q.values.Set(key, value)
	return q
}

// Expand populates a relation. "*" populates every first-level relation,
// "a" populates relation a, "a.b" populates a and relation b of each entry of a.
func (q *Query) Expand(path string) error {
	if path == "*" {
		q.values.Set("populate", "*")
		return nil
	}
	parts := strings.Split(path, ".")
	if len(parts) > maxExpandDepth {
		return fmt.Errorf("%w: expansion %q deeper than %d levels", model.ErrValidation, path, maxExpandDepth)
	}
	switch len(parts) {
	case 1:
		q.values.Set(fmt.Sprintf("populate[%d]", q.expand), parts[0])
	case 2:
		q.values.Set(fmt.Sprintf("populate[%s][populate][0]", parts[0]), parts[1])
	}
	q.expand++
	return nil
}

func (q *Query) Values() url.Values {
	if q == nil {
		return nil
	}
	return q.values
}

func buildQuery(expand []string) (*Query, error) {
	q := NewQuery()
	for _, e := range expand {
		if err := q.Expand(e); err != nil {
			return nil, err
		}
	}
	return q, nil
}
