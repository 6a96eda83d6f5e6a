package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}
type countryContextKey struct{}

var (
	LocaleKey  = localeContextKey{}
	CountryKey = countryContextKey{}
)

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// SupportedLocales are the display locales the dashboard formats for.
var SupportedLocales = []language.Tag{
	language.MustParse("en-NZ"),
	language.AmericanEnglish,
	language.BritishEnglish,
	language.MustParse("en-AU"),
	language.English,
	language.Indonesian,
	language.German,
	language.French,
	language.Spanish,
}

// LocaleResolver picks a supported locale for a request.
type LocaleResolver struct {
	fallback  language.Tag
	supported []language.Tag
	matcher   language.Matcher
	lookup    CountryLookup
}

// NewLocaleResolver builds a resolver that prefers fallback when nothing in
// the request matches.
func NewLocaleResolver(fallback language.Tag, lookup CountryLookup) *LocaleResolver {
	supported := []language.Tag{fallback}
	for _, t := range SupportedLocales {
		if t != fallback {
			supported = append(supported, t)
		}
	}
	return &LocaleResolver{
		fallback:  fallback,
		supported: supported,
		matcher:   language.NewMatcher(supported),
		lookup:    lookup,
	}
}

// Resolve returns the locale and best-effort country for r. The order is the
// X-Locale header, Accept-Language, the country's likely language, then the
// fallback. TokenLocale later lets a signed-in user's locale claim replace
// everything but X-Locale.
func (l *LocaleResolver) Resolve(r *http.Request) (language.Tag, string) {
	country := ResolveCountry(r, l.lookup)
	for _, header := range []string{"X-Locale", "Accept-Language"} {
		if tag, ok := l.match(r.Header.Get(header)); ok {
			return tag, country
		}
	}
	if country != "" {
		if region, err := language.ParseRegion(country); err == nil {
			// und-XX infers the region's most likely language.
			base, _ := language.Make("und-" + region.String()).Base()
			if tag, err := language.Compose(base, region); err == nil {
				if _, idx, conf := l.matcher.Match(tag); conf != language.No {
					return l.supported[idx], country
				}
			}
		}
	}
	return l.fallback, country
}

func (l *LocaleResolver) match(header string) (language.Tag, bool) {
	if strings.TrimSpace(header) == "" {
		return language.Und, false
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return language.Und, false
	}
	_, idx, conf := l.matcher.Match(tags...)
	if conf == language.No {
		return language.Und, false
	}
	return l.supported[idx], true
}

// I18N stores the resolved locale and country on the request context.
func I18N(resolver *LocaleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale, country := resolver.Resolve(r)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			if country != "" {
				ctx = context.WithValue(ctx, CountryKey, country)
			}
			w.Header().Set("Content-Language", locale.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenLocale runs after AuthJWT. When the token carries a supported locale
// and the request has no X-Locale header, that locale replaces the one I18N
// resolved.
func TokenLocale(resolver *LocaleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.TrimSpace(r.Header.Get("X-Locale")) != "" {
				next.ServeHTTP(w, r)
				return
			}
			tag, ok := resolver.match(TokenLocaleFromContext(r.Context()))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Content-Language", tag.String())
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), LocaleKey, tag)))
		})
	}
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LocaleFromContext returns the request locale, English when unset.
func LocaleFromContext(ctx context.Context) language.Tag {
	if v, ok := ctx.Value(LocaleKey).(language.Tag); ok {
		return v
	}
	return language.English
}

// CountryFromContext returns the ISO country code stored in the request context.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CountryKey).(string); ok {
		return v
	}
	return ""
}

// ResolveCountry resolves a best-effort ISO country code for the given
// request from proxy headers, an explicit locale region, then the IP lookup.
func ResolveCountry(r *http.Request, lookup CountryLookup) string {
	if r == nil {
		return ""
	}
	headerHints := []string{"X-Country-Code", "X-IP-Country", "CF-IPCountry", "X-Appengine-Country"}
	for _, key := range headerHints {
		if val := strings.TrimSpace(r.Header.Get(key)); val != "" {
			return strings.ToUpper(val)
		}
	}
	if region := localeRegion(r.Header.Get("X-Locale")); region != "" {
		return region
	}
	if region := localeRegion(r.Header.Get("Accept-Language")); region != "" {
		return region
	}
	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if country, err := lookup(ip); err == nil && country != "" {
				return strings.ToUpper(country)
			}
		}
	}
	return ""
}

// localeRegion returns the region of the first tag that names one explicitly.
func localeRegion(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return ""
	}
	for _, tag := range tags {
		if region, conf := tag.Region(); conf == language.Exact {
			return region.String()
		}
	}
	return ""
}
