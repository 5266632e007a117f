package model

// AccessToken is the object embedded in issued JWTs.
type AccessToken struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Timezone  string `json:"timezone"`
	CreatedAt string `json:"created_at"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=64"`
	Timezone string `json:"timezone"`
}

type RegisterResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

type GetMeRequest struct{}

type GetMeResponse struct {
	User User `json:"user"`
}
