package constants

// Response messages
const (
	ERROR_INTERNAL_ERROR       = "Internal server error"
	ERROR_INPUT                = "Invalid input"
	ERROR_PARSE_DATA_TO_LOCALS = "Failed to read request data"
	DATA_INPUT_IS_NOT_NUMBER   = "Parameter must be a number"
	NOT_ADMIN                  = "Unauthorized"
	MISSING_TOKEN              = "Missing token"
	INVALID_TOKEN              = "Invalid token"
	TOKEN_EXPIRED              = "Token expired"
	TABLE_NOT_FOUND            = "Table not found"
	INVALID_CREDENTIALS        = "Invalid credentials"
	ACCOUNT_NOT_ACTIVE         = "Account is disabled"
	USERNAME_EXISTS            = "Username already exists"
	TABLE_EXISTS               = "Table %d already exists"
	STAFF_CREATED              = "Staff account created successfully"
	USER_CREATED               = "User created successfully"
	ORDER_CREATED              = "Order created successfully"
	IMAGE_UPLOAD_DISABLED      = "Image upload is not configured"
	IMAGE_REQUIRED             = "Image file is required"
	INVALID_DATE               = "Date must be YYYY-MM-DD"
)
