package models

// Notice kinds mirror the alert icons of the console.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
	NoticeInfo    = "info"
	NoticeWarning = "warning"
)

// Notice is a one-shot notification shown on the next rendered page.
type Notice struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Admin is the signed-in administrator as returned by the login endpoint.
type Admin struct {
	Token    string
	Username string
}
