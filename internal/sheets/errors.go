package sheets

import "fmt"

// RemoteError: o upstream declarou falha (success=false ou status não-2xx).
// Carrega a mensagem do envelope quando disponível.
type RemoteError struct {
	Message string
	Status  int
}

func (e *RemoteError) Error() string { return e.Message }

// ResponseFormatError: corpo vazio ou que não parseia como JSON. Indica
// planilha/script mal configurado, não condição transitória.
type ResponseFormatError struct {
	Message string
}

func (e *ResponseFormatError) Error() string { return e.Message }

// TimeoutError: o limite de espera estourou. Transitório, seguro de repetir.
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string { return e.Message }

// TransportError: falha de rede genérica. Transitório, seguro de repetir.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("falha de rede ao %s no Sheets: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
