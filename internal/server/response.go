package server

// Msg is a single protocol line sent back to the client.
type Msg string

const (
	Prompt Msg = "pagestore> "

	OK     Msg = "OK"
	NoAuth Msg = "Not authenticated"
	NoPerm Msg = "Permission denied"
	NoDB   Msg = "No open DB"
	NoKey  Msg = "(nil)"
)

type Response struct {
	Msg   Msg
	Close bool
}

func Respond(m Msg) Response {
	return Response{Msg: m}
}

func Err(m Msg) Response {
	return Response{Msg: "ERR: " + m}
}

func Usage(u string) Response {
	return Response{Msg: Msg("ERR: Usage " + u)}
}

func Bye() Response {
	return Response{Msg: "Bye", Close: true}
}
