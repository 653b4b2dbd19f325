package utils

// Ellipsify shortens s to its first and last n characters joined by "..".
// Strings too short to benefit are returned unchanged.
func Ellipsify(s string, n int) string {
	if n <= 0 {
		n = 4
	}
	if len(s) <= n*2+2 {
		return s
	}
	return s[:n] + ".." + s[len(s)-n:]
}
