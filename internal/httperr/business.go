package httperr

import "errors"

// BusinessError é um erro de regra de negócio identificado por um código
// estável. É comparável, então sentinelas funcionam com errors.Is.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// CodeOf retorna o código do primeiro BusinessError da cadeia, ou "".
func CodeOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
