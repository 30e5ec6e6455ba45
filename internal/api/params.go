package api

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// maxSymbols bounds the symbols accepted by one request.
const maxSymbols = 10

// NewsParams are the query parameters of /api/news.
type NewsParams struct {
	Query string `query:"query" default:"stock market" validate:"max=200"`
	Limit int    `query:"limit" default:"20" validate:"min=1,max=100"`
	Hours int    `query:"hours" default:"24" validate:"min=1,max=720"`
}

// EuropeanNewsParams are the query parameters of /api/news/europe.
type EuropeanNewsParams struct {
	Country string `query:"country" default:"eu" validate:"oneof=eu de fr it es nl uk"`
	Limit   int    `query:"limit" default:"20" validate:"min=1,max=100"`
	Hours   int    `query:"hours" default:"24" validate:"min=1,max=720"`
}

// SocialParams are the query parameters of /api/social.
type SocialParams struct {
	Platform string `query:"platform" default:"all" validate:"oneof=all reddit twitter"`
	Query    string `query:"query" default:"stocks" validate:"max=200"`
	Limit    int    `query:"limit" default:"25" validate:"min=1,max=100"`
}

// StocksParams are the query parameters of /api/stocks.
type StocksParams struct {
	Symbols    []string `query:"symbols" default:"[\"AAPL\",\"MSFT\",\"GOOGL\",\"AMZN\",\"TSLA\"]" validate:"min=1,max=10,dive,symbol"`
	Technicals bool     `query:"technicals"`
}

// CorrelationParams are the query parameters of /api/correlation.
type CorrelationParams struct {
	Symbols []string `query:"symbols" default:"[\"SPY\",\"QQQ\",\"AAPL\"]" validate:"min=1,max=10,dive,symbol"`
	Period  string   `query:"period" default:"3m" validate:"oneof=1m 3m 6m 1y 2y"`
}

// MacroParams are the query parameters of /api/macro.
type MacroParams struct {
	Metric string `query:"metric" default:"fed-funds" validate:"oneof=fed-funds treasury-10y cpi unemployment gdp oil vix dollar"`
	Period string `query:"period" default:"1y" validate:"oneof=1m 3m 6m 1y 2y 5y"`
}

// ShillerPEParams are the query parameters of /api/valuation/shiller-pe.
type ShillerPEParams struct {
	Period string `query:"period" default:"20y" validate:"oneof=10y 20y 50y all"`
}

// SentimentParams are the query parameters of /api/sentiment.
type SentimentParams struct {
	Query string `query:"query" default:"stock market" validate:"max=200"`
	Limit int    `query:"limit" default:"20" validate:"min=1,max=100"`
}

var symbolPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("query")
	})
	_ = v.RegisterValidation("symbol", func(fl validator.FieldLevel) bool {
		return symbolPattern.MatchString(fl.Field().String())
	})
	return v
}

// bind fills dst from its defaults, then from the query string, then
// validates it. dst must be a pointer to a params struct.
func bind(q url.Values, dst any) error {
	if err := defaults.Set(dst); err != nil {
		return fmt.Errorf("params defaults: %w", err)
	}

	rv := reflect.ValueOf(dst).Elem()
	rt := rv.Type()
	for i := range rt.NumField() {
		name := rt.Field(i).Tag.Get("query")
		raw := strings.TrimSpace(q.Get(name))
		if name == "" || raw == "" {
			continue
		}
		if err := setField(rv.Field(i), name, raw); err != nil {
			return err
		}
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, paramMessage(fe))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func setField(f reflect.Value, name, raw string) error {
	switch f.Kind() {
	case reflect.String:
		f.SetString(raw)
	case reflect.Int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", name, raw)
		}
		f.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s must be a boolean, got %q", name, raw)
		}
		f.SetBool(b)
	case reflect.Slice:
		f.Set(reflect.ValueOf(splitSymbols(raw)))
	default:
		return fmt.Errorf("unsupported parameter %s", name)
	}
	return nil
}

// splitSymbols parses a comma separated symbol list, upper-casing entries
// and dropping empties and repeats.
func splitSymbols(raw string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, s := range strings.Split(raw, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func paramMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must list at least %s entry", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		switch fe.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("%s must list at most %d entries", field, maxSymbols)
		case reflect.String:
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "symbol":
		return fmt.Sprintf("invalid symbol %q", fe.Value())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

// echo lists the bound values by query name for response metadata.
func echo(params any) map[string]any {
	rv := reflect.ValueOf(params)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	rt := rv.Type()
	out := make(map[string]any, rt.NumField())
	for i := range rt.NumField() {
		if name := rt.Field(i).Tag.Get("query"); name != "" {
			out[name] = rv.Field(i).Interface()
		}
	}
	return out
}
