package authenticator

type TokenEngine[T any] interface {
	Generate(sub string, data T) (string, error)
	Verify(token string) (T, error)
}
