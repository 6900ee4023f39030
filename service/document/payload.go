package document

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/clbanning/mxj/v2"
)

// dataKeys are the wrapper keys a caller may nest the document under,
// probed in order.
var dataKeys = []string{"invoiceData", "itemData", "stockData", "importData"}

// ParseBody decodes an inbound request body into a generic map. XML bodies
// are converted through mxj; a single unrecognized root element is unwrapped
// so `<request><securityKey>..</securityKey>..</request>` behaves like the
// equivalent JSON object.
func ParseBody(body []byte, contentType string) (map[string]interface{}, error) {
	if strings.Contains(contentType, "xml") {
		m, err := mxj.NewMapXml(body)
		if err != nil {
			return nil, fmt.Errorf("parse xml body: %w", err)
		}
		payload := map[string]interface{}(m)
		if len(payload) == 1 {
			for root, v := range payload {
				if inner, ok := v.(map[string]interface{}); ok && !isKnownKey(root) {
					return inner, nil
				}
			}
		}
		return payload, nil
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse json body: %w", err)
	}
	return payload, nil
}

func isKnownKey(key string) bool {
	if key == "securityKey" {
		return true
	}
	for _, k := range dataKeys {
		if k == key {
			return true
		}
	}
	return false
}

// ExtractData pulls the document object out of the envelope: the first
// wrapper key present wins; otherwise the payload itself minus the security
// key is the document.
func ExtractData(payload map[string]interface{}) map[string]interface{} {
	for _, key := range dataKeys {
		if v, ok := payload[key]; ok {
			if data, ok := v.(map[string]interface{}); ok {
				return data
			}
		}
	}
	if _, ok := payload["securityKey"]; ok {
		data := make(map[string]interface{}, len(payload))
		for k, v := range payload {
			if k != "securityKey" {
				data[k] = v
			}
		}
		return data
	}
	return payload
}
