package enum

type RouteKind string

const (
	RouteMemory   RouteKind = "memory"
	RouteResponse RouteKind = "response"
	RouteUnknown  RouteKind = "unknown"
)

func (t RouteKind) String() string {
	return string(t)
}

type AuthResult string

const (
	AuthPass   AuthResult = "pass"
	AuthFail   AuthResult = "fail"
	AuthAbsent AuthResult = "absent"
)

func (t AuthResult) String() string {
	return string(t)
}
