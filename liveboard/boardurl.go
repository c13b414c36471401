package liveboard

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// BoardURLForPID builds a listing URL for a project board id. The site keys
// its boards by pid plus an m parameter that is just base64("project{pid}-link").
func BoardURLForPID(base string, pid int) string {
	m := base64.StdEncoding.EncodeToString(fmt.Appendf(nil, "project%d-link", pid))
	return fmt.Sprintf("%s/board/post_list.jsp?m=%s&pid=%d",
		strings.TrimRight(base, "/"), m, pid)
}
