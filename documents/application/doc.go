// Package application contém o caso de uso de criação de documento:
// transformar a submissão e persistir o Document resultante.
//
// Não conhece net/http nem o backend de armazenamento.
package application
