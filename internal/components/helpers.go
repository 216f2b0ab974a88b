package components

import (
	"fmt"

	"github.com/felixbrock/catalogview/internal/domain"
)

func ViewPath(viewId string) string {
	return fmt.Sprintf("/views/%s", viewId)
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

func userName(u domain.User) string {
	return u.Name
}
