package generator

import (
	"testing"

	"github.com/arjunmahishi/trpcgen/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRouters() []types.RouterMetadata {
	return []types.RouterMetadata{
		{
			Name:  "UserRouter",
			Alias: "users",
			File:  "/proj/src/user.router.ts",
			Procedures: []types.ProcedureMetadata{
				{
					Name:        "getUser",
					Kind:        types.Query,
					Input:       "z.object({ id: z.string() })",
					Output:      "UserSchema",
					OutputRef:   "UserSchema",
					Identifiers: []string{"UserSchema"},
				},
				{
					Name:        "createUser",
					Kind:        types.Mutation,
					Input:       "CreateUserInput",
					InputRef:    "CreateUserInput",
					Identifiers: []string{"CreateUserInput"},
				},
			},
		},
		{
			Name: "PostRouter",
			File: "/proj/src/post.router.ts",
			Procedures: []types.ProcedureMetadata{
				{Name: "listPosts", Kind: types.Query},
			},
		},
		{Name: "AdminRouter", Alias: "admin", File: "/proj/src/admin.router.ts"},
		{Name: "AdminExtraRouter", Alias: "admin", File: "/proj/src/admin-extra.router.ts"},
	}
}

func sampleLocations() types.SchemaLocations {
	return types.SchemaLocations{
		"UserSchema":      "/proj/src/schemas/user.ts",
		"CreateUserInput": "/proj/src/schemas/user.ts",
		"z":               "zod",
	}
}

func TestGenerate(t *testing.T) {
	out := New(Options{}).Generate(sampleRouters(), sampleLocations(), "/proj/src/@generated/server.ts")

	want := `import { initTRPC } from "@trpc/server";
import { z } from "zod";
import { UserSchema, CreateUserInput } from "../schemas/user";

const t = initTRPC.create();
const publicProcedure = t.procedure;

const userRouter = t.router({
  getUser: publicProcedure.input(z.object({ id: z.string() })).output(UserSchema).query(async () => "PLACEHOLDER_DO_NOT_REMOVE" as any),
  createUser: publicProcedure.input(CreateUserInput).mutation(async () => "PLACEHOLDER_DO_NOT_REMOVE" as any),
});

const postRouter = t.router({
  listPosts: publicProcedure.query(async () => "PLACEHOLDER_DO_NOT_REMOVE" as any),
});

const adminRouter = t.router({});

const adminExtraRouter = t.router({});

export const appRouter = t.router({
  users: userRouter,
  postRouter: postRouter,
  admin: t.mergeRouters(adminRouter, adminExtraRouter),
});
export type AppRouter = typeof appRouter;
`
	assert.Equal(t, want, out)
}

func TestGenerateDeterministic(t *testing.T) {
	g := New(Options{})
	first := g.Generate(sampleRouters(), sampleLocations(), "/proj/src/@generated/server.ts")
	for i := 0; i < 5; i++ {
		require.Equal(t, first, g.Generate(sampleRouters(), sampleLocations(), "/proj/src/@generated/server.ts"))
	}
}

func TestGenerateStyleAndTransformer(t *testing.T) {
	routers := []types.RouterMetadata{{
		Name:       "UserRouter",
		Procedures: []types.ProcedureMetadata{{Name: "ping", Kind: types.Query}},
	}}

	out := New(Options{
		SingleQuotes: true,
		NoSemicolons: true,
		Transformer:  &types.TransformerInfo{Package: "superjson", Name: "superjson", Default: true},
	}).Generate(routers, nil, "/proj/server.ts")

	want := `import { initTRPC } from '@trpc/server'
import { z } from 'zod'
import superjson from 'superjson'

const t = initTRPC.create({ transformer: superjson })
const publicProcedure = t.procedure

const userRouter = t.router({
  ping: publicProcedure.query(async () => 'PLACEHOLDER_DO_NOT_REMOVE' as any),
})

export const appRouter = t.router({
  userRouter: userRouter,
})
export type AppRouter = typeof appRouter
`
	assert.Equal(t, want, out)
}

func TestGenerateNamedTransformer(t *testing.T) {
	out := New(Options{
		Transformer: &types.TransformerInfo{Package: "devalue-transformer", Name: "devalue"},
	}).Generate(nil, nil, "/proj/server.ts")

	assert.Contains(t, out, `import { devalue } from "devalue-transformer";`)
	assert.Contains(t, out, "const t = initTRPC.create({ transformer: devalue });")
	assert.Contains(t, out, "export const appRouter = t.router({\n});")
}

func TestGenerateConstNames(t *testing.T) {
	routers := []types.RouterMetadata{
		{Name: "AppRouter"},
		{Name: "default"},
		{Name: "user_router", Alias: "my-users"},
		{Name: "UserRouter"},
	}
	out := New(Options{}).Generate(routers, nil, "/proj/server.ts")

	assert.Contains(t, out, "const appRouter2 = t.router({});")
	assert.Contains(t, out, "const defaultRouter = t.router({});")
	assert.Contains(t, out, "const userRouter = t.router({});")
	assert.Contains(t, out, "const userRouter2 = t.router({});")
	assert.Contains(t, out, "  appRouter: appRouter2,\n")
	assert.Contains(t, out, "  default: defaultRouter,\n")
	assert.Contains(t, out, `  "my-users": userRouter,`+"\n")
	assert.Contains(t, out, "  userRouter: userRouter2,\n")
}

func TestGeneratePackageImports(t *testing.T) {
	routers := []types.RouterMetadata{{
		Name: "SharedRouter",
		Procedures: []types.ProcedureMetadata{{
			Name:        "get",
			Kind:        types.Query,
			Input:       "z.object({ a: Shared, b: Local, c: Unknown })",
			Identifiers: []string{"Shared", "Local", "Unknown"},
		}},
	}}
	locations := types.SchemaLocations{
		"Shared": "@acme/schemas",
		"Local":  "/proj/src/local.tsx",
	}

	out := New(Options{}).Generate(routers, locations, "/proj/src/server.ts")
	assert.Contains(t, out, "import { Shared } from \"@acme/schemas\";\nimport { Local } from \"./local\";\n")
	assert.NotContains(t, out, "import { Unknown")
}

func TestImportPath(t *testing.T) {
	cases := []struct {
		dir, location, want string
	}{
		{"/p/out", "/p/src/a.ts", "../src/a"},
		{"/p/out", "/p/out/a.tsx", "./a"},
		{"/p/out", "zod", "zod"},
		{"out", "src/a.ts", "../src/a"},
		{"/p", "/p/x/y.ts", "./x/y"},
		{"/p", "/p/x/y.schema.ts", "./x/y.schema"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ImportPath(tc.dir, tc.location), "%s -> %s", tc.dir, tc.location)
	}
}

func TestLowerCamel(t *testing.T) {
	cases := map[string]string{
		"UserRouter":  "userRouter",
		"HTTPRouter":  "httpRouter",
		"user_router": "userRouter",
		"V2Router":    "v2Router",
		"default":     "default",
		"already":     "already",
		"":            "",
	}
	for in, want := range cases {
		assert.Equal(t, want, LowerCamel(in), in)
	}
}

func TestRouterKey(t *testing.T) {
	assert.Equal(t, "users", RouterKey(types.RouterMetadata{Name: "UserRouter", Alias: "users"}))
	assert.Equal(t, "userRouter", RouterKey(types.RouterMetadata{Name: "UserRouter"}))
}
