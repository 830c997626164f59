package httperror

type Error struct {
	Message string `json:"error" example:"you must specify an account ID"`
}

func New(e error) Error {
	return Error{
		Message: e.Error(),
	}
}
