// Package display renders security system notifications as text lines.
package display
