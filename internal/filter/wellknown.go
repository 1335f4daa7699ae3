package filter

var wellKnown = map[uint16]string{
	80:    "HTTP",
	443:   "HTTPS",
	3000:  "Node/React",
	3306:  "MySQL",
	5000:  "Flask/Django",
	5432:  "PostgreSQL",
	6379:  "Redis",
	8080:  "Alt HTTP",
	9000:  "PHP-FPM",
	27017: "MongoDB",
}

// WellKnownLabel names the service usually found on port, or "".
func WellKnownLabel(port uint16) string {
	return wellKnown[port]
}
