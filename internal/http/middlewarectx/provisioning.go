package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-wallet/internal/http/response"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/password"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/sl"
)

// ProvisioningKeyHeader заголовок с ключом шлюза идентификации.
const ProvisioningKeyHeader = "X-Provisioning-Key"

// ProvisioningKey пропускает только запросы шлюза идентификации, ключ
// которого совпадает с bcrypt-хешем keyHash. Пустой хеш закрывает маршрут.
func ProvisioningKey(keyHash string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(ProvisioningKeyHeader)
			if keyHash == "" || key == "" {
				log.Warn("provisioning key missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid provisioning key"))
				return
			}
			if err := password.CompareHash(keyHash, key); err != nil {
				log.Warn("provisioning key rejected", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid provisioning key"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
