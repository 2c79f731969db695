// Package application contém os casos de uso do gate de admissão e do limite
// de concorrência.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Service.Decide() consulta o gate uma única vez e devolve a Decision.
package application
