package dto

// PageRequest ventana de un listado (?limit=&offset=).
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Clamp devuelve la ventana con Limit en (0, max]: cero, negativo o mayor que max usan max.
// Un Offset negativo pasa a 0.
func (p PageRequest) Clamp(max int) PageRequest {
	if p.Limit <= 0 || p.Limit > max {
		p.Limit = max
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PageResponse ventana aplicada y cantidad de entradas devueltas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// ErrorResponse cuerpo de error HTTP. Message lleva el detalle de diagnóstico.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
