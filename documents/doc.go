// Package documents é o adapter HTTP do endpoint de criação de documentos.
//
// O gate de admissão fica fora deste pacote (middleware/ratelimit): o Handler
// só é chamado para requisições já admitidas e cuida de rota, decodificação,
// criação e resposta.
package documents
