package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBindList_Empty(t *testing.T) {
	mounts, err := ParseBindList("")
	require.NoError(t, err)
	assert.Nil(t, mounts)
}

func TestParseBindList_Pairs(t *testing.T) {
	mounts, err := ParseBindList("/host/a:/ctr/a,/host/b:/ctr/b")
	require.NoError(t, err)
	require.Len(t, mounts, 2)
	assert.Equal(t, BindMount{Source: "/host/a", Dest: "/ctr/a"}, mounts[0])
	assert.Equal(t, BindMount{Source: "/host/b", Dest: "/ctr/b"}, mounts[1])
}

func TestParseBindList_OrderPreserved(t *testing.T) {
	mounts, err := ParseBindList("z:/z,a:/a,m:/m")
	require.NoError(t, err)
	got := make([]string, len(mounts))
	for i, m := range mounts {
		got[i] = m.String()
	}
	assert.Equal(t, []string{"z:/z", "a:/a", "m:/m"}, got)
}

func TestParseBindList_Invalid(t *testing.T) {
	for _, list := range []string{"/host/a", ":/ctr/a", "/host/a:", "a:b,"} {
		_, err := ParseBindList(list)
		assert.Error(t, err, "list %q", list)
	}
}

func TestRunSpec_Argv(t *testing.T) {
	spec := RunSpec{
		Image:    "/apps/containers/xcp_d-0.5.0.sif",
		CleanEnv: true,
		NoHome:   true,
		Binds: []BindMount{
			{Source: "/scratch/xcp_d-42-abc", Dest: "/work"},
			{Source: "/data/in", Dest: "/data/input"},
		},
		Args: []string{"/data/input", "/data/output", "participant", "--notrack"},
	}

	assert.Equal(t, []string{
		"run",
		"--cleanenv",
		"--no-home",
		"-B", "/scratch/xcp_d-42-abc:/work",
		"-B", "/data/in:/data/input",
		"/apps/containers/xcp_d-0.5.0.sif",
		"/data/input", "/data/output", "participant", "--notrack",
	}, spec.Argv())
}

func TestRunSpec_Argv_NoDeduplication(t *testing.T) {
	// Conflicting destinations are the runtime's problem, not ours.
	spec := RunSpec{
		Image: "img.sif",
		Binds: []BindMount{
			{Source: "/a", Dest: "/work"},
			{Source: "/b", Dest: "/work"},
		},
	}

	argv := spec.Argv()
	assert.Equal(t, []string{"run", "-B", "/a:/work", "-B", "/b:/work", "img.sif"}, argv)
}
