package company

type CompanyResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Username  string  `json:"username"`
	Address   *string `json:"address,omitempty"`
	CreatedAt string  `json:"created_at"`
}
