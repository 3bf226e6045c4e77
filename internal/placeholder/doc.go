// Package placeholder replaces bracketed tokens such as [quote:destination_name]
// in message templates with values computed by registered resolvers.
//
// A token is '[' followed by a variable name of word characters, an optional
// ':' and key, and the first ']'. The variable name selects the input value
// from the data bag handed to the Engine; the full text between the brackets
// selects the resolver:
//
//	reg := placeholder.NewRegistry()
//	placeholder.RegisterString(reg, "user:first_name", func(_ context.Context, u model.User) string {
//		return u.FirstName
//	})
//	eng := placeholder.NewEngine(reg)
//	eng.ComputeText(ctx, "Hi [user:first_name]", map[string]any{"user": u})
//
// Resolution never fails the call. When a resolver cannot produce a value the
// token is either kept as written or replaced by a blank default, depending on
// how the placeholder was registered. Tokens without a resolver are replaced
// by the raw variable value when one was supplied.
package placeholder
