package utils

import (
	"net/http"
	"time"
)

const (
	SessionCookieName = "token"
	SessionCookieTTL  = 7 * 24 * time.Hour
)

// SetTokenCookie кладёт сессионный токен в httpOnly cookie.
// secure включается только в prod.
func SetTokenCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(SessionCookieTTL.Seconds()),
		Expires:  time.Now().Add(SessionCookieTTL),
	})
}

// ClearTokenCookie удаляет cookie сессии.
func ClearTokenCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}
