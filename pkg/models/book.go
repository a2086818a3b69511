package models

// Book is one entry of books.json. Published is kept as the raw string the
// document carries; parsing happens where dates are compared.
type Book struct {
	Title     string `json:"title"`
	Published string `json:"published"`
}
