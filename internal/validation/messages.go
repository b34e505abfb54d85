package validation

import "fmt"

// Taken is the message for a value that collides with an existing record.
func Taken(field string) string {
	return fmt.Sprintf("The %s has already been taken.", Label(field))
}

// InvalidSelection is the message for a reference to a record that does not exist.
func InvalidSelection(field string) string {
	return fmt.Sprintf("The selected %s is invalid.", Label(field))
}

// TooLarge is the message for an upload above the size limit.
func TooLarge(field string, kilobytes int64) string {
	return fmt.Sprintf("The %s field must not be greater than %d kilobytes.", field, kilobytes)
}

// NotImage is the message for an upload that is not a supported image.
func NotImage(field string) string {
	return fmt.Sprintf("The %s field must be an image.", field)
}
