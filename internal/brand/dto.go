package brand

type CreateBrandRequest struct {
	Name     string `json:"name" validate:"required,max=150"`
	Industry string `json:"industry" validate:"max=100"`
	Website  string `json:"website" validate:"omitempty,url,max=255"`
	Notes    string `json:"notes"`
}

type UpdateBrandRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=150"`
	Industry *string `json:"industry" validate:"omitempty,max=100"`
	Website  *string `json:"website" validate:"omitempty,url,max=255"`
	Notes    *string `json:"notes"`
}
