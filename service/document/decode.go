package document

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"vsdc.GO/service/stock"
)

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	rawJSONType = reflect.TypeOf(datatypes.JSON{})
)

// decimalHook converts the numeric and string forms JSON parsing produces
// into decimal.Decimal.
func decimalHook(_, to reflect.Type, data interface{}) (interface{}, error) {
	if to != decimalType {
		return data, nil
	}
	switch v := data.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		if v == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(v)
	}
	return data, nil
}

// rawJSONHook stores any nested structure targeted at a datatypes.JSON
// column as its marshaled form.
func rawJSONHook(_, to reflect.Type, data interface{}) (interface{}, error) {
	if to != rawJSONType {
		return data, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// decodeInto maps a parsed payload onto an entity or line struct using the
// struct's json tags.
func decodeInto(data interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(decimalHook, rawJSONHook),
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}

// decodeLines maps the payload's itemList onto typed lines.
func decodeLines(data map[string]interface{}) ([]stock.LineItem, error) {
	raw, ok := data["itemList"]
	if !ok || raw == nil {
		return nil, nil
	}
	var lines []stock.LineItem
	if err := decodeInto(raw, &lines); err != nil {
		return nil, fmt.Errorf("decode itemList: %w", err)
	}
	return lines, nil
}
