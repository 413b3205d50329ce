package constants

const (
	Create   = "CREATE"
	Update   = "UPDATE"
	Delete   = "DELETE"
	Register = "REGISTER"
)
