package admin

import (
	"net/http"

	"github.com/angelmondragon/giftshop-backend/api/responses"
	"github.com/angelmondragon/giftshop-backend/internal/dashboard"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
)

func DashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
