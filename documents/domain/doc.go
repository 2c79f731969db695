// Package domain define o formato do documento de introdução de mercadorias
// (LP_INTRODUCE_GOODS): a submissão completa recebida pelo endpoint e o
// Document resultante, que é a submissão sem o bloco "description".
package domain
