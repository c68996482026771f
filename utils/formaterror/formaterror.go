package formaterror

import "strings"

// FormatError maps raw storage error strings onto client-safe field errors,
// so unique-constraint noise never leaks through the API surface.
func FormatError(err string) map[string]string {
	errorMessages := make(map[string]string)

	lowered := strings.ToLower(err)
	if strings.Contains(lowered, "username") {
		errorMessages["Taken_username"] = "Username Already Taken"
	}
	if strings.Contains(lowered, "email") {
		errorMessages["Taken_email"] = "Email Already Taken"
	}
	if strings.Contains(lowered, "record not found") {
		errorMessages["No_record"] = "No Record Found"
	}
	if strings.Contains(lowered, "hashedpassword") || strings.Contains(lowered, "mismatch") {
		errorMessages["Incorrect_password"] = "Incorrect Password"
	}

	if len(errorMessages) > 0 {
		return errorMessages
	}
	return map[string]string{"Incorrect_details": "Incorrect Details"}
}
