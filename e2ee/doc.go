// Package e2ee implements the two message encryption schemes used by ZingerFi.
//
// Confide uses static per-user P-256 key pairs: the sender combines its own private key
// with the recipient's public key, and the recipient does the mirror operation.
//
// FastEncrypt is ECIES-like: the sender generates a single-use key pair per message and
// agrees a key with the long-lived system public key. Only the server, holding the system
// private key, can decrypt; see services.FastEncryptService for the one-time gate.
//
// Both schemes use AES-256-GCM with a 12 byte random nonce prefixed to the ciphertext.
package e2ee
