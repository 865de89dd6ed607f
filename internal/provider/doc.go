// Package provider implements the character lookup and mnemonic
// generation backends: the OpenAI chat model, the CCDB reference API,
// Google Gemini and a local fallback built on go-pinyin. Every backend
// reports failures as *Error values tagged with a Kind so the resolver
// can decide whether to move on to the next provider.
package provider
