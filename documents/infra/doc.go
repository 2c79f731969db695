// Package infra contém repositórios de documentos:
//   - MemoryRepository: em processo, limitado, usando ristretto
//   - RedisRepository: JSON em Redis com índice por participante
package infra
