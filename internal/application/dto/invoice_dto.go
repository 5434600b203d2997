package dto

// InvoiceRequestItem fila del listado con las marcas de actividad del usuario.
type InvoiceRequestItem struct {
	RequestID  int64  `json:"request_id"`
	ContextID  int64  `json:"context_id"`
	CreatedAt  string `json:"created_at"`
	ClosedAt   string `json:"closed_at,omitempty"`
	Viewed     bool   `json:"viewed"`
	Downloaded bool   `json:"downloaded"`
	Uploaded   bool   `json:"uploaded"`
	SellerURL  string `json:"seller_url"`
}

// InvoiceRequestListResponse página local (10 filas) de la única página remota.
// Total es el total informado por Takealot; TotalPages se calcula sobre lo descargado.
// Pages es la tira de números; 0 marca una elipsis.
type InvoiceRequestListResponse struct {
	Status     string               `json:"status"`
	Requests   []InvoiceRequestItem `json:"requests"`
	Total      int                  `json:"total"`
	Fetched    int                  `json:"fetched"`
	Page       int                  `json:"page"`
	PerPage    int                  `json:"per_page"`
	TotalPages int                  `json:"total_pages"`
	Pages      []int                `json:"pages"`
	From       int                  `json:"from"`
	To         int                  `json:"to"`
}

// RenderInvoiceRequest nota libre que se imprime en el bloque de facturación.
type RenderInvoiceRequest struct {
	Note string `json:"note"`
}

// UploadResponse resultado de subir el PDF regenerado.
type UploadResponse struct {
	Uploaded  bool   `json:"uploaded"`
	RequestID int64  `json:"request_id"`
	Filename  string `json:"filename"`
}

// ActivityResponse números de factura por acción, más recientes primero y sin repetidos.
type ActivityResponse struct {
	Viewed     []int64 `json:"viewed"`
	Downloaded []int64 `json:"downloaded"`
	Uploaded   []int64 `json:"uploaded"`
}
