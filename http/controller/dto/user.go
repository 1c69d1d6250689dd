package dto

import "github.com/propertyhub/propertyhub/service"

type RegisterForm struct {
	Name            string `form:"name"`
	Email           string `form:"email"`
	Phone           string `form:"phone"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
	Role            string `form:"role"`
	AgencyName      string `form:"agency_name"`
	AgencyAddress   string `form:"agency_address"`
}

func (f *RegisterForm) ToInput(logoURL string) service.RegisterInput {
	return service.RegisterInput{
		Name:          f.Name,
		Email:         f.Email,
		Phone:         f.Phone,
		Password:      f.Password,
		Role:          f.Role,
		AgencyName:    f.AgencyName,
		AgencyAddress: f.AgencyAddress,
		AgencyLogo:    logoURL,
	}
}

type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

type ProfileForm struct {
	Name          string `form:"name"`
	Email         string `form:"email"`
	Phone         string `form:"phone"`
	AgencyName    string `form:"agency_name"`
	AgencyAddress string `form:"agency_address"`
}
