package usecase

import "html"

// plainText reverses the storage-time HTML escaping for non-HTML channels.
func plainText(s string) string {
	return html.UnescapeString(s)
}
