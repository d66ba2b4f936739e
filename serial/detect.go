package serial

import "strings"

var modemKeywords = []string{"modem", "gsm", "wwan", "3g", "lte", "sim7", "huawei"}

func looksLikeModem(description string) bool {
	description = strings.ToLower(description)
	for _, keyword := range modemKeywords {
		if strings.Contains(description, keyword) {
			return true
		}
	}
	return false
}
