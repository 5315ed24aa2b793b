// Package lib holds shared pieces that do not belong to a single layer,
// such as the JSON codec the router installs on echo.
package lib
