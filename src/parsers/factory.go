package parsers

import (
	"fmt"

	"github.com/username/kopilka/backend/src/parsers/zenmoney"
)

func GetParser(source string) (Parser, error) {
	switch source {
	case "zenmoney":
		return zenmoney.NewParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for source: %s", source)
	}
}
