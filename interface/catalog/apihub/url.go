package apihub

import "strings"

// The media_src of the OData items points to the odata service of scihub, which does not serve apihub users
const (
	wrongDownloadRoot = "https://scihub.copernicus.eu/odata/v1"
	downloadRoot      = "https://scihub.copernicus.eu/apihub/odata/v1"
)

// CorrectDownloadURL rewrites the download url of a product to the apihub odata service
func CorrectDownloadURL(url string) string {
	return strings.ReplaceAll(url, wrongDownloadRoot, downloadRoot)
}
