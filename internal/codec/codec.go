// Package codec formats a single column value as a T-SQL literal safe to
// paste into a VALUES list. It is stateless and safe for concurrent use by
// every table-export worker.
package codec

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/EslamSife/database-exporter/internal/schema"
)

const maxInlineBinaryBytes = 8000

// Format renders value as a T-SQL literal. A nil value always yields NULL
// regardless of typeCode.
func Format(value interface{}, typeCode schema.SQLTypeCode) string {
	if value == nil {
		return "NULL"
	}

	switch typeCode {
	case schema.TypeVarChar, schema.TypeChar, schema.TypeNVarChar, schema.TypeNChar,
		schema.TypeLongText, schema.TypeCLOB, schema.TypeNCLOB:
		return formatString(value)
	case schema.TypeDate, schema.TypeTime, schema.TypeTimestamp, schema.TypeTimestampWithTimezone:
		return formatTemporal(value, typeCode)
	case schema.TypeBit, schema.TypeBoolean:
		return formatBool(value)
	case schema.TypeTinyInt, schema.TypeSmallInt, schema.TypeInteger, schema.TypeBigInt,
		schema.TypeNumeric, schema.TypeDecimal, schema.TypeReal, schema.TypeFloat, schema.TypeDouble:
		return formatNumeric(value, typeCode)
	case schema.TypeBinary, schema.TypeVarBinary, schema.TypeLongVarBinary, schema.TypeBlob:
		return formatBinary(value)
	default:
		return quoteSingle(stringify(value))
	}
}

func escapeStringBody(s string) string {
	s = strings.ReplaceAll(s, "'", "''")
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

func formatString(value interface{}) string {
	return "N'" + escapeStringBody(stringify(value)) + "'"
}

func quoteSingle(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func formatBool(value interface{}) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "1"
		}
		return "0"
	case int64:
		if v != 0 {
			return "1"
		}
		return "0"
	default:
		if s := stringify(value); s == "1" || strings.EqualFold(s, "true") {
			return "1"
		}
		return "0"
	}
}

func formatTemporal(value interface{}, typeCode schema.SQLTypeCode) string {
	t, ok := value.(time.Time)
	if !ok {
		return quoteSingle(stringify(value))
	}

	var layout string
	switch typeCode {
	case schema.TypeDate:
		layout = "2006-01-02"
	case schema.TypeTime:
		layout = "15:04:05.9999999"
	case schema.TypeTimestampWithTimezone:
		layout = "2006-01-02 15:04:05.9999999 -07:00"
	default:
		layout = "2006-01-02 15:04:05.9999999"
	}
	return "'" + t.Format(layout) + "'"
}

func formatNumeric(value interface{}, typeCode schema.SQLTypeCode) string {
	switch typeCode {
	case schema.TypeNumeric, schema.TypeDecimal:
		return formatDecimal(value)
	}

	switch v := value.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case []byte:
		return string(v)
	default:
		return stringify(value)
	}
}

// formatDecimal renders DECIMAL/NUMERIC/MONEY values through
// shopspring/decimal so the canonical fixed-point text never round-trips
// through a float64.
func formatDecimal(value interface{}) string {
	switch v := value.(type) {
	case []byte:
		if d, err := decimal.NewFromString(string(v)); err == nil {
			return d.String()
		}
		return string(v)
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d.String()
		}
		return v
	case float64:
		return decimal.NewFromFloat(v).String()
	case float32:
		return decimal.NewFromFloat32(v).String()
	case int64:
		return decimal.NewFromInt(v).String()
	default:
		return stringify(value)
	}
}

func formatBinary(value interface{}) string {
	b, ok := value.([]byte)
	if !ok {
		return quoteSingle(stringify(value))
	}
	if len(b) > maxInlineBinaryBytes {
		return "NULL /* Binary data too large */"
	}
	return "0x" + hex.EncodeToString(b)
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
