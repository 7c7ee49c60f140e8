package v1

import (
	"net/http"

	"storefront-bff/internal/usecase"
	"storefront-bff/pkg/utils"
)

type CityHandler struct {
	cityUC *usecase.CityUsecase
}

func NewCityHandler(cityUC *usecase.CityUsecase) *CityHandler {
	return &CityHandler{cityUC: cityUC}
}

func (h *CityHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeData(w, http.StatusOK, h.cityUC.Suggest(q.Get("q"), utils.ParseInt(q.Get("limit"), 0)))
}
