// Package request, http.Request üzerine route parametreleri, sorgu
// okuma, JSON çözümleme ve kimliği doğrulanmış personel erişimi ekleyen
// ince bir sarmalayıcıdır.
package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/biyonik/admission-api/pkg/auth"
)

// @author    Ahmet Altun
// @email     ahmet.altun60@gmail.com
// @github    github.com/biyonik
// @linkedin  linkedin.com/in/biyonik

// RequestParamsKeyType, route parametrelerinin context anahtarı tipi.
type RequestParamsKeyType struct{}

// RequestParamsKey, router'ın parametreleri yazdığı anahtar.
var RequestParamsKey = RequestParamsKeyType{}

// ErrUnauthenticated, context'te personel yok.
var ErrUnauthenticated = errors.New("unauthorized: no user in context")

// maxJSONBytes, JSON gövdeleri için üst sınır.
const maxJSONBytes = 1 << 20

type Request struct {
	*http.Request
}

func New(r *http.Request) *Request {
	return &Request{Request: r}
}

func (r *Request) IsJSON() bool {
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

func (r *Request) IsMultipart() bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// Query, sorgu parametresini okur; yoksa defaultValue döner.
func (r *Request) Query(key string, defaultValue string) string {
	vals, exists := r.URL.Query()[key]
	if !exists || len(vals) == 0 {
		return defaultValue
	}
	return vals[0]
}

// QueryMap, her sorgu parametresinin ilk değerini döndürür.
func (r *Request) QueryMap() map[string]string {
	out := make(map[string]string)
	for key, vals := range r.URL.Query() {
		if len(vals) > 0 {
			out[key] = vals[0]
		}
	}
	return out
}

func (r *Request) RouteParam(key string) string {
	params, ok := r.Context().Value(RequestParamsKey).(map[string]string)
	if !ok {
		return ""
	}
	return params[key]
}

// RouteID, pozitif bir tamsayı route parametresini okur.
func (r *Request) RouteID(key string) (int64, bool) {
	return ParseID(r.RouteParam(key))
}

// ParseID, pozitif bir tamsayı kimliği çözer.
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ParseJSON, gövdeyi dest'e çözer. Bilinmeyen alanlar yok sayılır.
//
// Örnek:
//
//	var payload services.ShiftPayload
//	if err := r.ParseJSON(&payload); err != nil {
//	    response.InvalidJSON(w)
//	    return
//	}
func (r *Request) ParseJSON(dest interface{}) error {
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBytes))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dest)
}

// ClientIP, istemci IP'sini döndürür. X-Forwarded-For yalnızca güvenilir bir
// reverse proxy arkasında anlamlıdır.
func (r *Request) ClientIP() string {
	return ClientIP(r.Request)
}

// ClientIP, rate limiter gibi *Request'e sahip olmayan katmanlar için.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// AuthUser, Auth middleware'inin context'e koyduğu personeli döndürür.
func (r *Request) AuthUser() (auth.User, error) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// AuthUserID, personel yoksa 0 döner.
func (r *Request) AuthUserID() int64 {
	user, err := r.AuthUser()
	if err != nil {
		return 0
	}
	return user.GetID()
}
